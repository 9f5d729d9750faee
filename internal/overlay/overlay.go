// Package overlay renders detection boxes and labels onto an image. It is a
// pure rendering step: detections are drawn in the order given and never
// reordered or filtered.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/marlin-vision/marlin/internal/detector"
	"github.com/marlin-vision/marlin/internal/utils"
)

// Options holds the rendering parameters. All constants are explicit here
// rather than hidden package state.
type Options struct {
	BoxColor     color.Color
	TextColor    color.Color
	BoxThickness int
	LabelOffsetX int // label offset right of the box's top-left corner
	LabelOffsetY int // label offset below the box's top-left corner
	Face         font.Face
}

// DefaultOptions returns the default rendering parameters.
func DefaultOptions() Options {
	return Options{
		BoxColor:     color.RGBA{R: 64, G: 235, B: 52, A: 255},
		TextColor:    color.Black,
		BoxThickness: 2,
		LabelOffsetX: 10,
		LabelOffsetY: 20,
		Face:         basicfont.Face7x13,
	}
}

// Annotate draws each detection's rectangle and a "{label} (score)" caption
// onto a fresh RGBA copy of the image and returns it.
func Annotate(img image.Image, detections []detector.Detection, opts Options) *image.RGBA {
	if img == nil {
		return nil
	}
	dst := utils.ToRGBA(img)
	if opts.Face == nil {
		opts.Face = basicfont.Face7x13
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(opts.TextColor),
		Face: opts.Face,
	}

	for _, d := range detections {
		utils.DrawRect(dst, d.Box.ToImageRect(), opts.BoxColor, opts.BoxThickness)

		c := d.Best()
		caption := fmt.Sprintf("%s (%.2f)", c.Label, c.Score)
		drawer.Dot = fixed.P(d.Box.Left+opts.LabelOffsetX, d.Box.Top+opts.LabelOffsetY)
		drawer.DrawString(caption)
	}

	return dst
}
