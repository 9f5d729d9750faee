package config

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"csv":  true,
	"yaml": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	if c.Detector.ScoreThreshold < 0 || c.Detector.ScoreThreshold > 1 {
		return fmt.Errorf("invalid score threshold: %.2f (must be between 0.0 and 1.0)",
			c.Detector.ScoreThreshold)
	}
	if c.Detector.NumThreads < 0 {
		return fmt.Errorf("invalid thread count: %d", c.Detector.NumThreads)
	}

	if c.Balance.SharpenFactor < 0 {
		return fmt.Errorf("invalid sharpen factor: %.2f", c.Balance.SharpenFactor)
	}
	if c.Balance.SmoothSigma < 0 {
		return fmt.Errorf("invalid smooth sigma: %.2f", c.Balance.SmoothSigma)
	}

	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, csv, yaml)",
			c.Output.Format)
	}
	if c.Output.BoxColor != "" {
		if _, err := colorful.Hex(c.Output.BoxColor); err != nil {
			return fmt.Errorf("invalid box color %q: %w", c.Output.BoxColor, err)
		}
	}
	if c.Output.TextColor != "" {
		if _, err := colorful.Hex(c.Output.TextColor); err != nil {
			return fmt.Errorf("invalid text color %q: %w", c.Output.TextColor, err)
		}
	}

	if c.GPU.Device < 0 {
		return fmt.Errorf("invalid GPU device: %d", c.GPU.Device)
	}

	return nil
}
