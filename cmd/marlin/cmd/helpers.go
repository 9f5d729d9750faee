package cmd

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/marlin-vision/marlin/internal/balance"
	"github.com/marlin-vision/marlin/internal/config"
	"github.com/marlin-vision/marlin/internal/detector"
	"github.com/marlin-vision/marlin/internal/onnx"
	"github.com/spf13/cobra"
)

// buildDetectorConfig maps the loaded application config onto the detector
// component config.
func buildDetectorConfig(cfg *config.Config) (detector.Config, error) {
	dc := detector.DefaultConfig()
	if cfg.Detector.ModelPath != "" {
		dc.ModelPath = cfg.Detector.ModelPath
	} else {
		dc.UpdateModelPath(cfg.ModelsDir)
	}
	dc.ScoreThreshold = float32(cfg.Detector.ScoreThreshold)
	dc.MaxResults = cfg.Detector.MaxResults
	dc.AllowList = cfg.Detector.AllowList
	dc.DenyList = cfg.Detector.DenyList
	dc.NumThreads = cfg.Detector.NumThreads

	dc.GPU.UseGPU = cfg.GPU.Enabled
	dc.GPU.DeviceID = cfg.GPU.Device
	if cfg.GPU.Enabled && cfg.GPU.MemoryLimit != "" {
		limit, err := parseGPUMemLimit(cfg.GPU.MemoryLimit)
		if err != nil {
			return detector.Config{}, err
		}
		dc.GPU.GPUMemLimit = limit
	}
	return dc, nil
}

// buildBalanceConfig maps the loaded application config onto the balance
// component config.
func buildBalanceConfig(cfg *config.Config) balance.Config {
	return balance.Config{
		SharpenFactor: cfg.Balance.SharpenFactor,
		SmoothSigma:   cfg.Balance.SmoothSigma,
	}
}

// parseGPUMemLimit parses "auto", a plain byte count, or a KB/MB/GB suffix.
func parseGPUMemLimit(s string) (uint64, error) {
	if s == "auto" {
		return onnx.GetRecommendedGPUMemLimit(), nil
	}
	multiplier := uint64(1)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "GB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "KB")
	}
	n, err := strconv.ParseUint(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid GPU memory limit %q: %w", s, err)
	}
	return n * multiplier, nil
}

// parseHexColor parses a "#RRGGBB" color string.
func parseHexColor(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// parsePatch parses a reference patch flag of the form "row,col,height,width".
func parsePatch(s string) (balance.Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return balance.Region{}, fmt.Errorf("invalid patch %q: expected row,col,height,width", s)
	}
	vals := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return balance.Region{}, fmt.Errorf("invalid patch %q: %w", s, err)
		}
		vals[i] = n
	}
	region := balance.Region{Row: vals[0], Col: vals[1], Height: vals[2], Width: vals[3]}
	if region.Height <= 0 || region.Width <= 0 {
		return balance.Region{}, fmt.Errorf("invalid patch %q: height and width must be positive", s)
	}
	return region, nil
}

// writeOutput prints to stdout or writes to the configured output file.
func writeOutput(cmd *cobra.Command, outputFile, content string) error {
	if outputFile == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
