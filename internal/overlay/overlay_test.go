package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlin-vision/marlin/internal/detector"
	"github.com/marlin-vision/marlin/internal/testutil"
)

func sampleDetections() []detector.Detection {
	return []detector.Detection{
		{
			Box: detector.Rect{Left: 10, Top: 10, Right: 60, Bottom: 50},
			Categories: []detector.Category{
				{Label: "fish", Score: 0.87, Index: 0},
			},
		},
	}
}

func TestAnnotate_DrawsBoxEdges(t *testing.T) {
	img := testutil.GenerateUniformImage(testutil.ImageSize{Width: 100, Height: 100},
		color.RGBA{R: 0, G: 0, B: 0, A: 255})
	opts := DefaultOptions()

	out := Annotate(img, sampleDetections(), opts)
	require.NotNil(t, out)

	boxColor := color.RGBA{R: 64, G: 235, B: 52, A: 255}
	assert.Equal(t, boxColor, out.RGBAAt(10, 10), "top-left corner")
	assert.Equal(t, boxColor, out.RGBAAt(35, 10), "top edge")
	assert.Equal(t, boxColor, out.RGBAAt(10, 30), "left edge")
	// A pixel inside the box and below the caption stays untouched.
	assert.Equal(t, color.RGBA{A: 255}, out.RGBAAt(35, 40))
}

func TestAnnotate_DrawsCaptionText(t *testing.T) {
	img := testutil.GenerateUniformImage(testutil.ImageSize{Width: 100, Height: 100},
		color.RGBA{R: 255, G: 255, B: 255, A: 255})
	opts := DefaultOptions()

	out := Annotate(img, sampleDetections(), opts)

	// The caption starts at (Left+10, Top+20); some pixel in that region
	// must have been darkened by the black glyphs.
	found := false
	for y := 15; y < 35 && !found; y++ {
		for x := 20; x < 90 && !found; x++ {
			c := out.RGBAAt(x, y)
			if c.R < 128 && c.G < 128 && c.B < 128 {
				found = true
			}
		}
	}
	assert.True(t, found, "expected caption glyph pixels near the box corner")
}

func TestAnnotate_DoesNotMutateInput(t *testing.T) {
	img := testutil.GenerateUniformImage(testutil.ImageSize{Width: 50, Height: 50},
		color.RGBA{R: 9, G: 9, B: 9, A: 255})
	before := img.RGBAAt(10, 10)

	_ = Annotate(img, sampleDetections(), DefaultOptions())
	assert.Equal(t, before, img.RGBAAt(10, 10))
}

func TestAnnotate_EmptyDetections(t *testing.T) {
	img := testutil.GenerateUnderwaterImage(testutil.ImageSize{Width: 30, Height: 30})
	out := Annotate(img, nil, DefaultOptions())
	require.NotNil(t, out)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestAnnotate_NilImage(t *testing.T) {
	assert.Nil(t, Annotate(nil, sampleDetections(), DefaultOptions()))
}

func TestAnnotate_NilFaceFallsBack(t *testing.T) {
	img := testutil.GenerateUniformImage(testutil.ImageSize{Width: 80, Height: 80},
		color.RGBA{R: 255, G: 255, B: 255, A: 255})
	opts := DefaultOptions()
	opts.Face = nil

	assert.NotPanics(t, func() {
		_ = Annotate(img, sampleDetections(), opts)
	})
}

func TestAnnotate_BoxPartiallyOutsideImage(t *testing.T) {
	img := testutil.GenerateUniformImage(testutil.ImageSize{Width: 40, Height: 40},
		color.RGBA{R: 0, G: 0, B: 0, A: 255})
	dets := []detector.Detection{{
		Box: detector.Rect{Left: -10, Top: -10, Right: 100, Bottom: 100},
		Categories: []detector.Category{
			{Label: "whale", Score: 0.99, Index: 3},
		},
	}}

	assert.NotPanics(t, func() {
		_ = Annotate(img, dets, DefaultOptions())
	})
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 2, opts.BoxThickness)
	assert.Equal(t, 10, opts.LabelOffsetX)
	assert.Equal(t, 20, opts.LabelOffsetY)
	assert.NotNil(t, opts.Face)
	assert.Equal(t, color.RGBA{R: 64, G: 235, B: 52, A: 255}, opts.BoxColor)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	assert.NotNil(t, Annotate(img, nil, opts))
}
