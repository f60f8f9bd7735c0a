package compress

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docufmt/pdftools/internal/pdf"
	"github.com/docufmt/pdftools/internal/pdf/errors"
)

// Request describes a single compression invocation.
type Request struct {
	InputPath  string
	OutputPath string // derived from InputPath when empty
	Preset     Preset // falls back to PresetEbook when empty
	Force      bool   // overwrite an existing output file
}

// Result reports the outcome of a compression run.
type Result struct {
	InputPath      string
	OutputPath     string
	Preset         Preset
	OriginalSize   int64
	CompressedSize int64
	Reduction      float64 // percent of the original size saved
	Elapsed        time.Duration
}

// Service compresses PDF files through an external Ghostscript engine.
type Service struct {
	engine    *Engine
	validator *pdf.Validator
}

// NewService creates a compression service.
func NewService(engine *Engine, maxFileSize int64) *Service {
	return &Service{
		engine:    engine,
		validator: pdf.NewValidator(maxFileSize),
	}
}

// DefaultOutputPath derives the output name for an input, placing
// "_compressed" before the extension: report.pdf -> report_compressed.pdf.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_compressed" + ext
}

// Compress rewrites the request's input PDF at the requested quality
// preset and reports the achieved size reduction. A partial output file
// is removed when Ghostscript fails.
func (s *Service) Compress(req Request) (*Result, error) {
	if err := s.validator.ValidateInput(req.InputPath); err != nil {
		return nil, err
	}

	preset := req.Preset
	if preset == "" {
		preset = PresetEbook
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(req.InputPath)
	}

	if err := pdf.EnsureOutput(outputPath, req.Force); err != nil {
		return nil, err
	}

	if err := s.engine.Available(); err != nil {
		return nil, err
	}

	originalSize, err := pdf.FileSize(req.InputPath)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := s.engine.Run(preset, req.InputPath, outputPath); err != nil {
		removePartialOutput(outputPath)
		return nil, err
	}
	elapsed := time.Since(start)

	compressedSize, err := pdf.FileSize(outputPath)
	if err != nil {
		return nil, errors.Wrap(errors.KindExternalToolFailure,
			"ghostscript did not produce an output file", err)
	}

	return &Result{
		InputPath:      req.InputPath,
		OutputPath:     outputPath,
		Preset:         preset,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Reduction:      pdf.Reduction(originalSize, compressedSize),
		Elapsed:        elapsed,
	}, nil
}

// removePartialOutput deletes whatever Ghostscript left behind after a
// failed run.
func removePartialOutput(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove partial output %s: %v", path, err)
	}
}
