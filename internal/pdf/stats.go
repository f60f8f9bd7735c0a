package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in a PDF file.
func PageCount(path string) (int, error) {
	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages in %s: %w", path, err)
	}
	return pages, nil
}

// FileSize returns the size of a file in bytes.
func FileSize(path string) (int64, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("cannot access file: %w", err)
	}
	return fileInfo.Size(), nil
}

// FormatSize renders a byte count in a human readable unit with two
// decimal places, e.g. "1.23 MB".
func FormatSize(size int64) string {
	s := float64(size)
	for _, unit := range []string{"B", "KB", "MB"} {
		if s < 1024.0 {
			return fmt.Sprintf("%.2f %s", s, unit)
		}
		s /= 1024.0
	}
	return fmt.Sprintf("%.2f GB", s)
}

// Reduction returns the percentage saved between an original and a
// compressed size. A non-positive original size reports zero so callers
// never divide by zero.
func Reduction(originalSize, compressedSize int64) float64 {
	if originalSize <= 0 {
		return 0
	}
	return (1.0 - float64(compressedSize)/float64(originalSize)) * 100.0
}
