package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
)

// supportedExtensions maps lowercase extensions of decodable photo formats.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
}

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// ImageMetadata captures lightweight file and pixel information about a
// loaded photograph.
type ImageMetadata struct {
	Path        string
	Format      string
	SizeBytes   int64
	Width       int
	Height      int
	AspectRatio float64
}

func loadErr(op string, err error) *ImageProcessingError {
	return &ImageProcessingError{Operation: op, Err: err}
}

// LoadImage opens and decodes a photograph, returning the image and its
// metadata. The format is decided by the registered stdlib and x/image
// decoders, not by the extension.
func LoadImage(path string) (image.Image, ImageMetadata, error) {
	if path == "" {
		return nil, ImageMetadata{}, loadErr("load", errors.New("empty path"))
	}
	if !IsSupportedImage(path) {
		return nil, ImageMetadata{},
			loadErr("load", fmt.Errorf("unsupported format: %s", filepath.Ext(path)))
	}

	f, err := os.Open(path) //nolint:gosec // G304: user-provided image path is the point
	if err != nil {
		return nil, ImageMetadata{}, loadErr("load", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close image file", "path", path, "error", err)
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, ImageMetadata{}, loadErr("load", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, ImageMetadata{}, loadErr("decode", err)
	}

	b := img.Bounds()
	meta := ImageMetadata{
		Path:        path,
		Format:      format,
		SizeBytes:   fi.Size(),
		Width:       b.Dx(),
		Height:      b.Dy(),
		AspectRatio: float64(b.Dx()) / float64(b.Dy()),
	}
	return img, meta, nil
}

// SavePNG writes an image as PNG, creating parent directories as needed.
func SavePNG(path string, img image.Image) error {
	if img == nil {
		return loadErr("save", errors.New("input image is nil"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return loadErr("save", err)
	}
	f, err := os.Create(path) //nolint:gosec // G304: user-provided output path is the point
	if err != nil {
		return loadErr("save", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close output file", "path", path, "error", err)
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return loadErr("encode", err)
	}
	return nil
}
