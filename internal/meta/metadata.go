// Package meta extracts the preprocessing parameters and the label map that
// the marine detection models carry in their container's custom metadata.
package meta

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/yalue/onnxruntime_go"
	"golang.org/x/text/unicode/norm"
)

// Custom-metadata keys used by the model packing convention. The processing
// units document is attached to the input tensor; bundled associated files
// are stored under a "file:" prefix.
const (
	ProcessUnitsKey      = "process_units"
	AssociatedFilePrefix = "file:"

	// Processing unit type carrying the mean/std pair.
	normalizationType = "normalization"
)

// Metadata holds the model's input normalization parameters and label map.
// Built once at detector construction and immutable afterwards.
type Metadata struct {
	Mean   float32
	Std    float32
	Labels []string // index == model class index
}

// processUnit mirrors one entry of the process_units JSON document.
type processUnit struct {
	Type string    `json:"type"`
	Mean []float32 `json:"mean"`
	Std  []float32 `json:"std"`
}

// Extract reads the model container's custom metadata map and returns the
// normalization parameters and label list. The container is read exactly
// once; the returned metadata has no further ties to the model file.
func Extract(modelPath string) (*Metadata, error) {
	mm, err := onnxruntime_go.GetModelMetadata(modelPath)
	if err != nil {
		return nil, &InvalidModelError{Path: modelPath, Reason: "failed to read model metadata", Err: err}
	}
	defer func() {
		if err := mm.Destroy(); err != nil {
			slog.Warn("failed to destroy model metadata handle", "error", err)
		}
	}()

	keys, err := mm.GetCustomMetadataMapKeys()
	if err != nil {
		return nil, &InvalidModelError{Path: modelPath, Reason: "failed to list custom metadata keys", Err: err}
	}

	entries := make(map[string]string, len(keys))
	for _, k := range keys {
		v, _, err := mm.LookupCustomMetadataMap(k)
		if err != nil {
			return nil, &InvalidModelError{Path: modelPath, Reason: fmt.Sprintf("failed to read metadata key %q", k), Err: err}
		}
		entries[k] = v
	}

	return Parse(modelPath, entries)
}

// Parse builds Metadata from a raw custom-metadata map. Split from Extract
// so the parsing rules can be tested without a model file.
func Parse(modelPath string, entries map[string]string) (*Metadata, error) {
	doc, ok := entries[ProcessUnitsKey]
	if !ok {
		return nil, &InvalidModelError{Path: modelPath, Reason: "input tensor metadata missing (no process_units)"}
	}

	mean, std, err := parseNormalization(doc)
	if err != nil {
		return nil, &InvalidModelError{Path: modelPath, Reason: "malformed process_units document", Err: err}
	}

	labels, err := parseLabels(entries)
	if err != nil {
		return nil, &InvalidModelError{Path: modelPath, Reason: err.Error()}
	}

	return &Metadata{Mean: mean, Std: std, Labels: labels}, nil
}

// parseNormalization reads the first mean/std pair of the first normalization
// unit. A document without a normalization unit yields the quantized-model
// defaults mean=0, std=1.
func parseNormalization(doc string) (float32, float32, error) {
	var units []processUnit
	if err := json.Unmarshal([]byte(doc), &units); err != nil {
		return 0, 0, fmt.Errorf("invalid JSON: %w", err)
	}

	mean, std := float32(0.0), float32(1.0)
	for _, u := range units {
		if u.Type != normalizationType {
			continue
		}
		if len(u.Mean) > 0 {
			mean = u.Mean[0]
		}
		if len(u.Std) > 0 {
			std = u.Std[0]
		}
		break
	}
	return mean, std, nil
}

// parseLabels decodes the first bundled associated file (sorted key order)
// into a label list: one label per line, empty lines dropped, order kept.
func parseLabels(entries map[string]string) ([]string, error) {
	var fileKeys []string
	for k := range entries {
		if strings.HasPrefix(k, AssociatedFilePrefix) {
			fileKeys = append(fileKeys, k)
		}
	}
	if len(fileKeys) == 0 {
		return nil, fmt.Errorf("no associated label file bundled in model metadata")
	}
	sort.Strings(fileKeys)

	labels := SplitLabelFile(entries[fileKeys[0]])
	if len(labels) == 0 {
		return nil, fmt.Errorf("label file %q contains no labels", fileKeys[0])
	}
	return labels, nil
}

// SplitLabelFile splits label file content into labels, dropping empty lines
// and normalizing each line to NFC. Line index equals model class index.
func SplitLabelFile(content string) []string {
	var labels []string
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if i == 0 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if line == "" {
			continue
		}
		labels = append(labels, norm.NFC.String(line))
	}
	return labels
}
