package compress

import (
	"bytes"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/docufmt/pdftools/internal/pdf/errors"
)

// Engine invokes the Ghostscript binary to rewrite PDF files.
type Engine struct {
	cmd string
}

// NewEngine creates an engine around the given Ghostscript command. An
// empty command falls back to "gs".
func NewEngine(cmd string) *Engine {
	if cmd == "" {
		cmd = "gs"
	}
	return &Engine{cmd: cmd}
}

// Available checks that the Ghostscript binary can be executed.
func (e *Engine) Available() error {
	if err := exec.Command(e.cmd, "--version").Run(); err != nil {
		return errors.Wrap(errors.KindExternalToolFailure,
			fmt.Sprintf("ghostscript command %q not available (install ghostscript or set PDFTOOLS_GS)", e.cmd), err)
	}
	return nil
}

// args builds the pdfwrite invocation for a single input/output pair.
func (e *Engine) args(preset Preset, inputPath, outputPath string) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		preset.Flag(),
		"-dCompatibilityLevel=1.4",
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-sOutputFile=" + outputPath,
		inputPath,
	}
}

// Run rewrites inputPath into outputPath using the preset. The call blocks
// until Ghostscript exits; no timeout is applied.
func (e *Engine) Run(preset Preset, inputPath, outputPath string) error {
	args := e.args(preset, inputPath, outputPath)
	log.Printf("running: %s %s", e.cmd, strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.Command(e.cmd, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := "ghostscript failed"
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, detail)
		}
		return errors.Wrap(errors.KindExternalToolFailure, msg, err)
	}

	return nil
}
