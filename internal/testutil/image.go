package testutil

import (
	"image"
	"image/color"
	"image/draw"
)

// ImageSize represents common image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// Common test image sizes.
	SmallSize  = ImageSize{320, 240}
	MediumSize = ImageSize{640, 480}
)

// GenerateUniformImage creates a solid-color test image.
func GenerateUniformImage(size ImageSize, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// GenerateUnderwaterImage creates a synthetic underwater scene: a blue-green
// cast background with a horizontal brightness gradient, the way turbid
// water attenuates red first.
func GenerateUnderwaterImage(size ImageSize) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	for y := range size.Height {
		for x := range size.Width {
			depth := float64(y) / float64(size.Height)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(40 * (1 - depth)),
				G: uint8(120 + 60*(1-depth)),
				B: uint8(150 + 80*(1-depth)),
				A: 255,
			})
		}
	}
	return img
}

// DrawBlob fills a rectangle with a solid color, standing in for an object.
func DrawBlob(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
}

// WritePatch sets every pixel inside the rectangle to the given RGBA values.
func WritePatch(img *image.RGBA, rect image.Rectangle, r, g, b uint8) {
	DrawBlob(img, rect, color.RGBA{R: r, G: g, B: b, A: 255})
}
