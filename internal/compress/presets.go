package compress

import (
	"fmt"
	"strings"
)

// Preset selects a Ghostscript quality configuration.
type Preset string

const (
	PresetScreen   Preset = "screen"
	PresetEbook    Preset = "ebook"
	PresetPrinter  Preset = "printer"
	PresetPrepress Preset = "prepress"
	PresetDefault  Preset = "default"
)

// presetDescriptions mirrors the Ghostscript -dPDFSETTINGS documentation.
var presetDescriptions = map[Preset]string{
	PresetScreen:   "screen-view-only quality, 72 dpi images",
	PresetEbook:    "low quality, 150 dpi images",
	PresetPrinter:  "high quality, 300 dpi images",
	PresetPrepress: "high quality preserving color, 300 dpi images",
	PresetDefault:  "almost identical to screen",
}

// Presets lists the valid presets in display order.
func Presets() []Preset {
	return []Preset{PresetScreen, PresetEbook, PresetPrinter, PresetPrepress, PresetDefault}
}

// PresetNames returns the valid preset names joined for usage text.
func PresetNames() string {
	names := make([]string, 0, len(Presets()))
	for _, p := range Presets() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presetDescriptions[p]; !ok {
		return "", fmt.Errorf("invalid compression preset %q (choose from: %s)", s, PresetNames())
	}
	return p, nil
}

// Description returns the human summary for the preset.
func (p Preset) Description() string {
	return presetDescriptions[p]
}

// Flag returns the Ghostscript -dPDFSETTINGS argument for the preset.
func (p Preset) Flag() string {
	return "-dPDFSETTINGS=/" + string(p)
}
