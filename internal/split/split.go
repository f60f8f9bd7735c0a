package split

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docufmt/pdftools/internal/pdf"
)

const dirPerm = 0o750

// Request describes a single split invocation.
type Request struct {
	InputPath string
	OutputDir string
	Ranges    []PageRange // nil splits into one file per page
	Overwrite bool
}

// OutputFile records one document written by a split run.
type OutputFile struct {
	Path  string
	Range PageRange
}

// Result reports the outcome of a split run.
type Result struct {
	InputPath string
	OutputDir string
	PageCount int
	Files     []OutputFile
}

// Service splits PDF files into per-page or per-range documents.
type Service struct {
	validator *pdf.Validator
}

// NewService creates a split service.
func NewService(maxFileSize int64) *Service {
	return &Service{
		validator: pdf.NewValidator(maxFileSize),
	}
}

// Split writes one output document per requested range. Every range is
// validated against the document page count before the first file is
// written, so a bad expression produces no output at all.
func (s *Service) Split(req Request) (*Result, error) {
	if err := s.validator.ValidateInput(req.InputPath); err != nil {
		return nil, err
	}

	ctx, err := readContext(req.InputPath)
	if err != nil {
		return nil, err
	}
	pageCount := ctx.PageCount

	perPage := len(req.Ranges) == 0
	ranges := req.Ranges
	if perPage {
		ranges = make([]PageRange, 0, pageCount)
		for page := 1; page <= pageCount; page++ {
			ranges = append(ranges, PageRange{Start: page, End: page})
		}
	}

	if err := ValidateRanges(ranges, pageCount); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.OutputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("cannot create output directory %s: %w", req.OutputDir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(req.InputPath), filepath.Ext(req.InputPath))

	result := &Result{
		InputPath: req.InputPath,
		OutputDir: req.OutputDir,
		PageCount: pageCount,
		Files:     make([]OutputFile, 0, len(ranges)),
	}

	for _, r := range ranges {
		name := fmt.Sprintf("%s_%s.pdf", stem, r.Label())
		if perPage {
			name = fmt.Sprintf("%s_p%d.pdf", stem, r.Start)
		}
		outputPath := filepath.Join(req.OutputDir, name)

		if err := pdf.EnsureOutput(outputPath, req.Overwrite); err != nil {
			return nil, err
		}

		extracted, err := pdfcpu.ExtractPages(ctx, r.Pages(), false)
		if err != nil {
			return nil, fmt.Errorf("failed to extract pages %s: %w", r.Label(), err)
		}

		if err := api.WriteContextFile(extracted, outputPath); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
		}

		fmt.Printf("Saved: %s\n", outputPath)
		result.Files = append(result.Files, OutputFile{Path: outputPath, Range: r})
	}

	return result, nil
}

// readContext loads a PDF into a pdfcpu context with relaxed validation.
func readContext(path string) (*model.Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to determine page count of %s: %w", path, err)
	}

	return ctx, nil
}
