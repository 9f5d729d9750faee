// Package balance implements white-patch color correction for underwater
// imagery: the brightest pixel of a user-chosen reference patch is assumed
// to be true white, and channel-wise division removes the color cast.
package balance

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
	"github.com/marlin-vision/marlin/internal/utils"
)

// Region is the reference-patch rectangle in pixel coordinates, supplied per
// call. No persistent state is kept anywhere in this package.
type Region struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Height int `json:"height"`
	Width  int `json:"width"`
}

// Config controls the enhancement applied after balancing. The contract
// order is balance, then sharpen, then optional smoothing.
type Config struct {
	SharpenFactor float64 // sharpness enhancement factor (default: 2.0)
	SmoothSigma   float64 // final smoothing blur sigma; <= 0 disables
}

// DefaultConfig returns the default enhancement configuration.
func DefaultConfig() Config {
	return Config{
		SharpenFactor: 2.0,
		SmoothSigma:   1.0,
	}
}

// Apply balances the image against the reference patch and derives the
// enhanced variant (sharpened, then smoothed). Both returned images are new
// buffers; the input is never mutated.
func Apply(img image.Image, region Region, config Config) (image.Image, image.Image, error) {
	balanced, err := WhitePatch(img, region)
	if err != nil {
		return nil, nil, err
	}

	enhanced := image.Image(Enhance(balanced, config.SharpenFactor))
	if config.SmoothSigma > 0 {
		enhanced = Smooth(enhanced, config.SmoothSigma)
	}
	return balanced, enhanced, nil
}

// WhitePatch divides every pixel of the image by the per-channel maximum
// found inside the reference patch, clips to [0,1] and scales back to 8-bit.
// A zero patch-max for a channel is treated as 1 so the division is always
// defined; that channel passes through unchanged.
func WhitePatch(img image.Image, region Region) (*image.RGBA, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	src := utils.ToRGBA(img)
	bounds := src.Bounds()

	patch := utils.ClampRect(image.Rect(
		region.Col, region.Row,
		region.Col+region.Width, region.Row+region.Height,
	), bounds)
	if patch.Empty() {
		return nil, fmt.Errorf("reference patch %+v lies outside the image %v", region, bounds)
	}

	maxR, maxG, maxB := patchMax(src, patch)

	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := y * src.Stride
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := off + x*4
			dst.Pix[p] = rescale(src.Pix[p], maxR)
			dst.Pix[p+1] = rescale(src.Pix[p+1], maxG)
			dst.Pix[p+2] = rescale(src.Pix[p+2], maxB)
			dst.Pix[p+3] = src.Pix[p+3]
		}
	}
	return dst, nil
}

// patchMax returns the per-channel maximum inside the patch rectangle.
func patchMax(src *image.RGBA, patch image.Rectangle) (uint8, uint8, uint8) {
	var maxR, maxG, maxB uint8
	for y := patch.Min.Y; y < patch.Max.Y; y++ {
		off := y * src.Stride
		for x := patch.Min.X; x < patch.Max.X; x++ {
			p := off + x*4
			maxR = max(maxR, src.Pix[p])
			maxG = max(maxG, src.Pix[p+1])
			maxB = max(maxB, src.Pix[p+2])
		}
	}
	return maxR, maxG, maxB
}

// rescale divides a channel value by the patch maximum in the [0,1] domain,
// clips, and rounds back to 8-bit. A zero maximum clamps to 1.
func rescale(v, channelMax uint8) uint8 {
	maxF := float64(channelMax) / 255.0
	if maxF == 0 {
		maxF = 1
	}
	scaled := (float64(v) / 255.0) / maxF
	if scaled > 1 {
		scaled = 1
	}
	return uint8(math.Round(scaled * 255.0))
}

// Enhance applies a sharpness enhancement: the image is interpolated away
// from a Gaussian-blurred degenerate by the given factor. Factor 1 returns
// the image unchanged, 0 the blurred copy, 2 a sharpened result.
func Enhance(img image.Image, factor float64) *image.RGBA {
	src := utils.ToRGBA(img)
	degenerate := blur.Gaussian(src, 1.0)

	dst := image.NewRGBA(src.Bounds())
	for i := 0; i < len(src.Pix); i += 4 {
		for c := range 3 {
			d := float64(degenerate.Pix[i+c])
			o := float64(src.Pix[i+c])
			dst.Pix[i+c] = clampByte(d + factor*(o-d))
		}
		dst.Pix[i+3] = src.Pix[i+3]
	}
	return dst
}

// Smooth applies a mild Gaussian blur as the final optional step.
func Smooth(img image.Image, sigma float64) image.Image {
	return imaging.Blur(img, sigma)
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
