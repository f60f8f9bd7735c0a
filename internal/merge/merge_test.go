package merge

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/docufmt/pdftools/internal/pdf"
	"github.com/docufmt/pdftools/internal/pdf/errors"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	return img
}

// makeTestPDF writes a valid PDF with the given number of pages to path.
func makeTestPDF(t *testing.T, path string, pages int) {
	t.Helper()

	imgDir := t.TempDir()
	files := make([]string, 0, pages)
	for i := 0; i < pages; i++ {
		imgPath := filepath.Join(imgDir, fmt.Sprintf("page_%d.png", i))
		makeTestPNG(t, imgPath)
		files = append(files, imgPath)
	}

	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	require.NoError(t, api.ImportImagesFile(files, path, nil, conf))
}

func makeTestPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testImage()))
	require.NoError(t, f.Close())
}

func makeTestJPEG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, testImage(), nil))
	require.NoError(t, f.Close())
}

func makeTestTIFF(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, tiff.Encode(f, testImage(), nil))
	require.NoError(t, f.Close())
}

func TestBuildManifest(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.PDF"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.tiff"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "inner.pdf"), []byte("x"), 0o644))

	man, err := BuildManifest(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(man.Entries))
	for _, e := range man.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.png", "b.PDF", "C.jpg", "z.tiff"}, names)

	assert.Equal(t, EntryImage, man.Entries[0].Kind)
	assert.Equal(t, EntryPDF, man.Entries[1].Kind)
	assert.Equal(t, EntryImage, man.Entries[2].Kind)
	assert.Equal(t, EntryImage, man.Entries[3].Kind)

	for _, e := range man.Entries {
		assert.Equal(t, int64(1), e.Size, "entry %s", e.Name)
	}

	assert.Equal(t, []string{"notes.txt"}, man.Skipped)
}

func TestBuildManifest_CaseInsensitiveOrder(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "B.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C.pdf"), []byte("x"), 0o644))

	man, err := BuildManifest(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(man.Entries))
	for _, e := range man.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.pdf", "B.pdf", "C.pdf"}, names)
}

func TestBuildManifest_MissingDir(t *testing.T) {
	_, err := BuildManifest(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, errors.KindMissingInput, errors.KindOf(err))
}

func TestBuildManifest_FileInsteadOfDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := BuildManifest(path)
	require.Error(t, err)
	assert.Equal(t, errors.KindMissingInput, errors.KindOf(err))
}

func TestMerge_MixedInputs(t *testing.T) {
	dir := t.TempDir()
	makeTestPNG(t, filepath.Join(dir, "a.png"))
	makeTestPDF(t, filepath.Join(dir, "b.pdf"), 2)
	makeTestJPEG(t, filepath.Join(dir, "c.jpg"))

	output := filepath.Join(t.TempDir(), "combined.pdf")
	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)

	assert.Equal(t, output, res.OutputPath)
	assert.Equal(t, 3, res.Merged)
	assert.Equal(t, 4, res.Pages)
	assert.Greater(t, res.OutputSize, int64(0))
	assert.Empty(t, res.Skipped)

	pages, err := pdf.PageCount(output)
	require.NoError(t, err)
	assert.Equal(t, 4, pages)
}

func TestMerge_SinglePDF(t *testing.T) {
	dir := t.TempDir()
	makeTestPDF(t, filepath.Join(dir, "only.pdf"), 3)

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 3, res.Pages)
}

func TestMerge_SingleImage(t *testing.T) {
	dir := t.TempDir()
	makeTestPNG(t, filepath.Join(dir, "photo.png"))

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, 1, res.Pages)

	pages, err := pdf.PageCount(output)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestMerge_TIFFInput(t *testing.T) {
	dir := t.TempDir()
	makeTestTIFF(t, filepath.Join(dir, "scan.tif"))

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pages)
}

func TestMerge_SkipsUnrecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	makeTestPDF(t, filepath.Join(dir, "doc.pdf"), 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte("x"), 0o644))

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Merged)
	assert.Equal(t, []string{"data.csv", "readme.md"}, res.Skipped)
}

func TestMerge_EmptyDir(t *testing.T) {
	svc := NewService(100 * 1024 * 1024)

	_, err := svc.Merge(Request{InputDir: t.TempDir(), OutputPath: "out.pdf"})
	require.Error(t, err)
	assert.Equal(t, errors.KindUnsupportedFile, errors.KindOf(err))
}

func TestMerge_OnlyUnrecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	svc := NewService(100 * 1024 * 1024)

	_, err := svc.Merge(Request{InputDir: dir, OutputPath: "out.pdf"})
	require.Error(t, err)
	assert.Equal(t, errors.KindUnsupportedFile, errors.KindOf(err))
}

func TestMerge_MissingDir(t *testing.T) {
	svc := NewService(100 * 1024 * 1024)

	_, err := svc.Merge(Request{InputDir: filepath.Join(t.TempDir(), "gone")})
	require.Error(t, err)
	assert.Equal(t, errors.KindMissingInput, errors.KindOf(err))
}

func TestMerge_CorruptImageAbortsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	makeTestPDF(t, filepath.Join(dir, "good.pdf"), 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not an image"), 0o644))

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	_, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot decode image")

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written when probing fails")
}

func TestMerge_CorruptPDFAbortsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	makeTestPNG(t, filepath.Join(dir, "good.png"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.pdf"), []byte("not a pdf"), 0o644))

	output := filepath.Join(t.TempDir(), "out.pdf")
	svc := NewService(100 * 1024 * 1024)

	_, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.Error(t, err)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "no output should be written when probing fails")
}

func TestMerge_DefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	makeTestPDF(t, filepath.Join(dir, "doc.pdf"), 1)

	workDir := t.TempDir()
	t.Chdir(workDir)

	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputName, res.OutputPath)

	_, statErr := os.Stat(filepath.Join(workDir, DefaultOutputName))
	assert.NoError(t, statErr)
}

func TestMerge_OverwritesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	makeTestPDF(t, filepath.Join(dir, "doc.pdf"), 2)

	output := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, os.WriteFile(output, []byte("stale"), 0o644))

	svc := NewService(100 * 1024 * 1024)

	res, err := svc.Merge(Request{InputDir: dir, OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)

	pages, err := pdf.PageCount(output)
	require.NoError(t, err)
	assert.Equal(t, 2, pages)
}
