package pipeline

import (
	"math"

	"github.com/marlin-vision/marlin/internal/balance"
	"github.com/marlin-vision/marlin/internal/detector"
)

// Result holds the outcome of one detection pass over one image.
type Result struct {
	Source           string               `json:"source" yaml:"source"`
	Width            int                  `json:"width" yaml:"width"`
	Height           int                  `json:"height" yaml:"height"`
	Detections       []detector.Detection `json:"detections" yaml:"detections"`
	Count            int                  `json:"count" yaml:"count"`
	MeanScore        float64              `json:"mean_score" yaml:"mean_score"`
	ProcessingTimeNs int64                `json:"processing_time_ns" yaml:"processing_time_ns"`
}

// Comparison pairs the detection results before and after color correction
// of the same source image.
type Comparison struct {
	Region    balance.Region `json:"region" yaml:"region"`
	Original  *Result        `json:"original" yaml:"original"`
	Corrected *Result        `json:"corrected" yaml:"corrected"`
}

// summarize fills Count and MeanScore from the detections. The mean is taken
// over per-detection scores rounded to two decimals; zero when empty.
func summarize(res *Result) {
	res.Count = len(res.Detections)
	if res.Count == 0 {
		res.MeanScore = 0
		return
	}
	var sum float64
	for _, d := range res.Detections {
		sum += math.Round(float64(d.Best().Score)*100) / 100
	}
	res.MeanScore = sum / float64(res.Count)
}
