package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/docufmt/pdftools/internal/compress"
	"github.com/docufmt/pdftools/internal/config"
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
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <input.pdf>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\npdfcompress - compress a PDF through Ghostscript quality presets\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	pflag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nPresets:\n")
	for _, p := range compress.Presets() {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", p, p.Description())
	}
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s report.pdf                          # ebook preset, writes report_compressed.pdf\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -c screen report.pdf                # smallest output\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -c printer -o print.pdf report.pdf  # high quality, custom output\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  PDFTOOLS_GS          Ghostscript command\n")
	fmt.Fprintf(os.Stderr, "  PDFTOOLS_PRESET      Default compression preset\n")
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

	presetFlag := pflag.StringP("compression", "c", cfg.Preset, "compression preset: "+compress.PresetNames())
	outputFlag := pflag.StringP("output", "o", "", "output file path (default: <input>_compressed.pdf)")
	forceFlag := pflag.BoolP("force", "f", false, "overwrite the output file if it exists")
	gsFlag := pflag.String("gs", cfg.Ghostscript, "ghostscript command to invoke")

	pflag.Usage = usage
	pflag.Parse()

	setupLogging(cfg)

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input PDF is required")
		pflag.Usage()
		os.Exit(exitFailure)
	}

	preset, err := compress.ParsePreset(*presetFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFailure)
	}

	svc := compress.NewService(compress.NewEngine(*gsFlag), cfg.MaxFileSize)

	fmt.Printf("Compressing: %s\n", args[0])
	fmt.Printf("Preset: %s (%s)\n", preset, preset.Description())

	res, err := svc.Compress(compress.Request{
		InputPath:  args[0],
		OutputPath: *outputFlag,
		Preset:     preset,
		Force:      *forceFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	fmt.Println()
	fmt.Printf("Original size:   %s\n", pdf.FormatSize(res.OriginalSize))
	fmt.Printf("Compressed size: %s\n", pdf.FormatSize(res.CompressedSize))
	fmt.Printf("Reduction:       %.1f%%\n", res.Reduction)
	fmt.Printf("Time taken:      %.2f seconds\n", res.Elapsed.Seconds())
	fmt.Printf("Saved to:        %s\n", res.OutputPath)
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
	fmt.Printf("pdfcompress\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
