package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/docufmt/pdftools/internal/config"
	"github.com/docufmt/pdftools/internal/merge"
	"github.com/docufmt/pdftools/internal/pdf"
	pdferrors "github.com/docufmt/pdftools/internal/pdf/errors"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// Exit codes, one per error kind so scripts can react without parsing
// stderr.
const (
	exitSuccess         = 0
	exitFailure         = 1
	exitMissingInput    = 2
	exitOutputExists    = 3
	exitInvalidRange    = 4
	exitUnsupportedFile = 5
	exitExternalTool    = 6
)

// setupLogging hides diagnostics unless debug logging is enabled
func setupLogging(cfg *config.Config) {
	if cfg.IsDebug() {
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Printf("Configuration: %s", cfg)
		return
	}
	log.SetOutput(io.Discard)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <input_dir> [output.pdf]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\npdfmerge - merge the PDFs and images of a directory into one PDF\n\n")
	fmt.Fprintf(os.Stderr, "Supported inputs: pdf, jpg, jpeg, png, tif, tiff (merged in name order)\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s scans/                   # writes merged.pdf in the current directory\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s scans/ bundle.pdf        # custom output name\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --dpi 150 scans/         # smaller pages from image inputs\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  PDFTOOLS_DPI         Image import resolution\n")
	fmt.Fprintf(os.Stderr, "  PDFTOOLS_LOGLEVEL    Log level (debug, info, warn, error)\n")
	fmt.Fprintf(os.Stderr, "  PDFTOOLS_MAXFILESIZE Maximum input file size in bytes\n")
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dpiFlag := pflag.Int("dpi", cfg.ImageDPI, "resolution for image pages in dots per inch")

	pflag.Usage = usage
	pflag.Parse()

	setupLogging(cfg)

	args := pflag.Args()
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(os.Stderr, "Error: an input directory is required")
		pflag.Usage()
		os.Exit(exitFailure)
	}
	if *dpiFlag < config.MinImageDPI || *dpiFlag > config.MaxImageDPI {
		fmt.Fprintf(os.Stderr, "Error: dpi must be between %d and %d\n", config.MinImageDPI, config.MaxImageDPI)
		os.Exit(exitFailure)
	}

	outputPath := ""
	if len(args) == 2 {
		outputPath = args[1]
	}

	svc := merge.NewService(cfg.MaxFileSize)

	fmt.Printf("Merging: %s\n", args[0])

	res, err := svc.Merge(merge.Request{
		InputDir:   args[0],
		OutputPath: outputPath,
		DPI:        *dpiFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	fmt.Println()
	fmt.Printf("Merged %d files (%d pages) into %s (%s)\n",
		res.Merged, res.Pages, res.OutputPath, pdf.FormatSize(res.OutputSize))
}

// exitCode maps classified errors onto the tool's exit codes.
func exitCode(err error) int {
	switch pdferrors.KindOf(err) {
	case pdferrors.KindMissingInput:
		return exitMissingInput
	case pdferrors.KindOutputExists:
		return exitOutputExists
	case pdferrors.KindInvalidRange:
		return exitInvalidRange
	case pdferrors.KindUnsupportedFile:
		return exitUnsupportedFile
	case pdferrors.KindExternalToolFailure:
		return exitExternalTool
	default:
		return exitFailure
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pdfmerge\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
