package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ToJSON serializes a Result to pretty JSON.
func ToJSON(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToYAML serializes a Result to YAML.
func ToYAML(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := yaml.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToText renders a human-readable summary, one detection per line.
func ToText(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%dx%d): %d detection(s), mean score %.2f\n",
		res.Source, res.Width, res.Height, res.Count, res.MeanScore)
	for _, d := range res.Detections {
		c := d.Best()
		fmt.Fprintf(&sb, "  %-16s %.2f  %s\n", c.Label, c.Score, d.Box)
	}
	return sb.String(), nil
}

// ToCSV exports per-detection structured data as CSV with header.
func ToCSV(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"source", "label", "score", "left", "top", "right", "bottom"}); err != nil {
		return "", err
	}
	for _, d := range res.Detections {
		c := d.Best()
		rec := []string{
			res.Source,
			c.Label,
			strconv.FormatFloat(float64(c.Score), 'f', 4, 32),
			strconv.Itoa(d.Box.Left),
			strconv.Itoa(d.Box.Top),
			strconv.Itoa(d.Box.Right),
			strconv.Itoa(d.Box.Bottom),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Format renders a Result in the requested output format.
func Format(res *Result, format string) (string, error) {
	switch format {
	case "json":
		return ToJSON(res)
	case "yaml":
		return ToYAML(res)
	case "csv":
		return ToCSV(res)
	case "text", "":
		return ToText(res)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// ComparisonToText renders a before/after summary of a comparison run.
func ComparisonToText(cmp *Comparison) (string, error) {
	if cmp == nil || cmp.Original == nil || cmp.Corrected == nil {
		return "", errors.New("nil comparison")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Comparison for %s (patch row=%d col=%d %dx%d)\n",
		cmp.Original.Source, cmp.Region.Row, cmp.Region.Col, cmp.Region.Width, cmp.Region.Height)
	fmt.Fprintf(&sb, "  original : %d detection(s), mean score %.2f\n",
		cmp.Original.Count, cmp.Original.MeanScore)
	fmt.Fprintf(&sb, "  corrected: %d detection(s), mean score %.2f\n",
		cmp.Corrected.Count, cmp.Corrected.MeanScore)
	return sb.String(), nil
}

// ComparisonToJSON serializes a comparison to pretty JSON.
func ComparisonToJSON(cmp *Comparison) (string, error) {
	if cmp == nil {
		return "", errors.New("nil comparison")
	}
	b, err := json.MarshalIndent(cmp, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparisonToYAML serializes a comparison to YAML.
func ComparisonToYAML(cmp *Comparison) (string, error) {
	if cmp == nil {
		return "", errors.New("nil comparison")
	}
	b, err := yaml.Marshal(cmp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FormatComparison renders a Comparison in the requested output format.
func FormatComparison(cmp *Comparison, format string) (string, error) {
	switch format {
	case "json":
		return ComparisonToJSON(cmp)
	case "yaml":
		return ComparisonToYAML(cmp)
	case "csv":
		before, err := ToCSV(cmp.Original)
		if err != nil {
			return "", err
		}
		after, err := ToCSV(cmp.Corrected)
		if err != nil {
			return "", err
		}
		// Drop the duplicate header from the second block.
		if i := strings.Index(after, "\n"); i >= 0 {
			after = after[i+1:]
		}
		return before + after, nil
	case "text", "":
		return ComparisonToText(cmp)
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}
