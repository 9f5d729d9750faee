package detector

import "fmt"

// decodeOutputs turns raw model outputs into detections in source-image
// pixel space. Entries below the score threshold are skipped; the boundary
// is inclusive. The class index is used as-is with no adjustment for a
// reserved background slot. Output order follows the raw outputs and is
// otherwise unranked.
func decodeOutputs(raw *RawOutputs, labels []string, threshold float32,
	imageWidth, imageHeight int,
) ([]Detection, error) {
	count := raw.Count
	if count < 0 {
		count = 0
	}
	if count > len(raw.Scores) {
		count = len(raw.Scores)
	}

	results := make([]Detection, 0, count)
	for i := range count {
		score := raw.Scores[i]
		if score < threshold {
			continue
		}

		if (i+1)*4 > len(raw.Locations) {
			return nil, fmt.Errorf("location output too short: %d boxes expected, %d floats present",
				count, len(raw.Locations))
		}
		yMin := raw.Locations[i*4]
		xMin := raw.Locations[i*4+1]
		yMax := raw.Locations[i*4+2]
		xMax := raw.Locations[i*4+3]

		box := Rect{
			Top:    int(yMin * float32(imageHeight)),
			Left:   int(xMin * float32(imageWidth)),
			Bottom: int(yMax * float32(imageHeight)),
			Right:  int(xMax * float32(imageWidth)),
		}

		if i >= len(raw.Classes) {
			return nil, fmt.Errorf("class output too short: %d entries for %d detections",
				len(raw.Classes), count)
		}
		classIdx := int(raw.Classes[i])
		if classIdx < 0 || classIdx >= len(labels) {
			return nil, fmt.Errorf("class index %d out of range for %d labels", classIdx, len(labels))
		}

		results = append(results, Detection{
			Box: box,
			Categories: []Category{{
				Label: labels[classIdx],
				Score: score,
				Index: classIdx,
			}},
		})
	}

	return results, nil
}
