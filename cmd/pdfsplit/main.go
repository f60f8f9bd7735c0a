package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/docufmt/pdftools/internal/config"
	pdferrors "github.com/docufmt/pdftools/internal/pdf/errors"
	"github.com/docufmt/pdftools/internal/split"
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
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <input.pdf> <output_dir>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\npdfsplit - split a PDF into single pages or page ranges\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s report.pdf pages/                    # one file per page\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -r 1-3,7 report.pdf out/             # report_1-3.pdf and report_7.pdf\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s --overwrite report.pdf pages/        # replace earlier results\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
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

	rangesFlag := pflag.StringP("ranges", "r", "", "page ranges to extract, e.g. \"1-3,5,7-9\" (default: every page separately)")
	overwriteFlag := pflag.Bool("overwrite", false, "replace existing files in the output directory")

	pflag.Usage = usage
	pflag.Parse()

	setupLogging(cfg)

	args := pflag.Args()
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Error: an input PDF and an output directory are required")
		pflag.Usage()
		os.Exit(exitFailure)
	}

	var ranges []split.PageRange
	if *rangesFlag != "" {
		ranges, err = split.ParseRanges(*rangesFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitCode(err))
		}
	}

	svc := split.NewService(cfg.MaxFileSize)

	fmt.Printf("Splitting: %s\n", args[0])

	res, err := svc.Split(split.Request{
		InputPath: args[0],
		OutputDir: args[1],
		Ranges:    ranges,
		Overwrite: *overwriteFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	fmt.Println()
	fmt.Printf("Split %d pages into %d files in %s\n", res.PageCount, len(res.Files), res.OutputDir)
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
	fmt.Printf("pdfsplit\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
