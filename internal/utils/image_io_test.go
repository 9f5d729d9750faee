package utils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"photo.png", true},
		{"scan.bmp", true},
		{"doc.pdf", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSupportedImage(tt.path), tt.path)
	}
}

func TestLoadImage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.png")

	src := image.NewRGBA(image.Rect(0, 0, 20, 10))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())

	img, meta, err := LoadImage(path)
	require.NoError(t, err)
	require.NotNil(t, img)

	assert.Equal(t, "png", meta.Format)
	assert.Equal(t, 20, meta.Width)
	assert.Equal(t, 10, meta.Height)
	assert.InDelta(t, 2.0, meta.AspectRatio, 1e-9)
	assert.Positive(t, meta.SizeBytes)
}

func TestLoadImage_Errors(t *testing.T) {
	_, _, err := LoadImage("")
	require.Error(t, err)

	_, _, err = LoadImage("file.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")

	_, _, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
}

func TestLoadImage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o600))

	_, _, err := LoadImage(path)
	require.Error(t, err)
	var iperr *ImageProcessingError
	require.ErrorAs(t, err, &iperr)
	assert.Equal(t, "decode", iperr.Operation)
}

func TestSavePNG_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "img.png")
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))

	require.NoError(t, SavePNG(path, img))

	loaded, meta, err := LoadImage(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Equal(t, 8, meta.Width)
}

func TestSavePNG_NilImage(t *testing.T) {
	err := SavePNG(filepath.Join(t.TempDir(), "x.png"), nil)
	require.Error(t, err)
}
