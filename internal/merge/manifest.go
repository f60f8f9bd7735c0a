package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docufmt/pdftools/internal/pdf/errors"
)

// EntryKind classifies a manifest entry by its extension.
type EntryKind int

const (
	EntryPDF EntryKind = iota
	EntryImage
)

// String returns the display name of the entry kind.
func (k EntryKind) String() string {
	switch k {
	case EntryPDF:
		return "pdf"
	case EntryImage:
		return "image"
	default:
		return "unknown"
	}
}

// imageExts lists the image extensions the merger recognizes.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// Entry is one recognized input file in merge order.
type Entry struct {
	Path string
	Name string
	Kind EntryKind
	Size int64
}

// Manifest is the ordered list of files a merge run will process.
type Manifest struct {
	Dir     string
	Entries []Entry
	Skipped []string // unrecognized file names, reported but not merged
}

// BuildManifest scans the top level of dir and returns the recognized
// files sorted by lowercased name. Subdirectories are not descended into.
func BuildManifest(dir string) (*Manifest, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.KindMissingInput, "input directory does not exist").WithPath(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.KindMissingInput, "input path is not a directory").WithPath(dir)
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	man := &Manifest{Dir: dir}
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}

		name := de.Name()
		ext := strings.ToLower(filepath.Ext(name))

		var kind EntryKind
		switch {
		case ext == ".pdf":
			kind = EntryPDF
		case imageExts[ext]:
			kind = EntryImage
		default:
			man.Skipped = append(man.Skipped, name)
			continue
		}

		fi, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("cannot stat %s: %w", name, err)
		}

		man.Entries = append(man.Entries, Entry{
			Path: filepath.Join(dir, name),
			Name: name,
			Kind: kind,
			Size: fi.Size(),
		})
	}

	sort.SliceStable(man.Entries, func(i, j int) bool {
		return strings.ToLower(man.Entries[i].Name) < strings.ToLower(man.Entries[j].Name)
	})
	sort.SliceStable(man.Skipped, func(i, j int) bool {
		return strings.ToLower(man.Skipped[i]) < strings.ToLower(man.Skipped[j])
	})

	return man, nil
}
