package merge

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docufmt/pdftools/internal/pdf"
	"github.com/docufmt/pdftools/internal/pdf/errors"
)

// DefaultOutputName is used when the request does not name an output file.
const DefaultOutputName = "merged.pdf"

// defaultDPI is the fallback image import resolution.
const defaultDPI = 300

// Request describes a single merge invocation.
type Request struct {
	InputDir   string
	OutputPath string // DefaultOutputName when empty
	DPI        int    // image import resolution, defaultDPI when unset
}

// Result reports the outcome of a merge run.
type Result struct {
	OutputPath string
	Merged     int // recognized files merged into the output
	Pages      int
	OutputSize int64
	Skipped    []string
}

// Service merges the PDFs and images of a directory into one document.
type Service struct {
	validator *pdf.Validator
}

// NewService creates a merge service.
func NewService(maxFileSize int64) *Service {
	return &Service{
		validator: pdf.NewValidator(maxFileSize),
	}
}

// Merge concatenates every recognized file of the request directory, in
// lexicographic order of the lowercased names, into a single PDF. Images
// become full-page PDF pages at the request DPI. Every input is probed
// before anything is written, so one corrupt file aborts the whole run
// with no output.
func (s *Service) Merge(req Request) (*Result, error) {
	man, err := BuildManifest(req.InputDir)
	if err != nil {
		return nil, err
	}

	for _, name := range man.Skipped {
		fmt.Fprintf(os.Stderr, "Skipping unsupported file: %s\n", name)
	}

	if len(man.Entries) == 0 {
		return nil, errors.New(errors.KindUnsupportedFile, "no supported files found in directory").WithPath(req.InputDir)
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputName
	}

	dpi := req.DPI
	if dpi <= 0 {
		dpi = defaultDPI
	}

	for _, entry := range man.Entries {
		if err := s.probe(entry); err != nil {
			return nil, err
		}
	}

	tmpDir, err := os.MkdirTemp("", "pdfmerge-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	imp, err := api.Import(fmt.Sprintf("dpi:%d, pos:full", dpi), types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("invalid import configuration: %w", err)
	}

	inputs := make([]string, 0, len(man.Entries))
	for i, entry := range man.Entries {
		fmt.Printf("Adding: %s\n", entry.Name)
		switch entry.Kind {
		case EntryPDF:
			inputs = append(inputs, entry.Path)
		case EntryImage:
			converted := filepath.Join(tmpDir, fmt.Sprintf("img_%03d.pdf", i))
			if err := api.ImportImagesFile([]string{entry.Path}, converted, imp, conf); err != nil {
				return nil, fmt.Errorf("failed to convert image %s: %w", entry.Name, err)
			}
			log.Printf("converted %s -> %s", entry.Name, converted)
			inputs = append(inputs, converted)
		}
	}

	// A single input needs no merge pass, just land it at the output path.
	if len(inputs) == 1 {
		if err := copyFile(inputs[0], outputPath); err != nil {
			return nil, err
		}
	} else {
		if err := api.MergeCreateFile(inputs, outputPath, false, conf); err != nil {
			return nil, fmt.Errorf("failed to merge into %s: %w", outputPath, err)
		}
	}

	pages, err := pdf.PageCount(outputPath)
	if err != nil {
		return nil, err
	}

	size, err := pdf.FileSize(outputPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		OutputPath: outputPath,
		Merged:     len(man.Entries),
		Pages:      pages,
		OutputSize: size,
		Skipped:    man.Skipped,
	}, nil
}

// probe verifies an entry can be decoded before any conversion work.
func (s *Service) probe(entry Entry) error {
	switch entry.Kind {
	case EntryPDF:
		return s.validator.ValidateInput(entry.Path)
	case EntryImage:
		return probeImage(entry.Path)
	default:
		return errors.NewUnsupportedFile(entry.Path)
	}
}

// probeImage checks that an image file decodes with a registered format.
func probeImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open image %s: %w", path, err)
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("cannot decode image %s: %w", path, err)
	}

	return nil
}

// copyFile copies src into dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("cannot copy %s to %s: %w", src, dst, err)
	}

	return out.Close()
}
