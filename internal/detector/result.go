package detector

import (
	"fmt"
	"image"
)

// Rect is an axis-aligned bounding box in source-image pixel coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// ToImageRect converts to the standard library rectangle type.
func (r Rect) ToImageRect() image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom)
}

// Width returns the box width in pixels.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the box height in pixels.
func (r Rect) Height() int { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d %d,%d]", r.Left, r.Top, r.Right, r.Bottom)
}

// Category is a single classification outcome for a detected object.
type Category struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
	Index int     `json:"index"`
}

// Detection is one recognized object: a bounding box with its top-scoring
// category. Categories always has length 1 by construction.
type Detection struct {
	Box        Rect       `json:"box"`
	Categories []Category `json:"categories"`
}

// Best returns the top category. Safe on well-formed detections only.
func (d Detection) Best() Category { return d.Categories[0] }
