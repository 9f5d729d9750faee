package detector

import "sort"

// Rank applies the deterministic result pipeline: stable sort by descending
// score (ties keep decode order), then deny-list, then allow-list, then
// truncation. The stage order is load-bearing; reordering it changes results
// whenever several filters are configured at once.
func Rank(detections []Detection, config Config) []Detection {
	ranked := make([]Detection, len(detections))
	copy(ranked, detections)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Best().Score > ranked[j].Best().Score
	})

	if config.DenyList != nil {
		denied := toSet(config.DenyList)
		kept := ranked[:0]
		for _, d := range ranked {
			if _, ok := denied[d.Best().Label]; !ok {
				kept = append(kept, d)
			}
		}
		ranked = kept
	}

	if config.AllowList != nil {
		allowed := toSet(config.AllowList)
		kept := ranked[:0]
		for _, d := range ranked {
			if _, ok := allowed[d.Best().Label]; ok {
				kept = append(kept, d)
			}
		}
		ranked = kept
	}

	if config.MaxResults > 0 && len(ranked) > config.MaxResults {
		ranked = ranked[:config.MaxResults]
	}

	return ranked
}

func toSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return set
}
