// Package pipeline wires the detector, color balancer and annotator into the
// before/after comparison flow the CLI exposes.
package pipeline

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/marlin-vision/marlin/internal/balance"
	"github.com/marlin-vision/marlin/internal/detector"
	"github.com/marlin-vision/marlin/internal/models"
)

// Config holds configuration for the pipeline and its components.
type Config struct {
	ModelsDir string
	Detector  detector.Config
	Balance   balance.Config
}

// DefaultConfig returns a default pipeline config with component defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir: models.GetModelsDir(""),
		Detector:  detector.DefaultConfig(),
		Balance:   balance.DefaultConfig(),
	}
}

// Builder constructs a Runner with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithModelsDir sets the models directory and updates the model path.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.ModelsDir = dir
	}
	b.cfg.Detector.UpdateModelPath(b.cfg.ModelsDir)
	return b
}

// WithModelPath overrides the detection model path directly.
func (b *Builder) WithModelPath(path string) *Builder {
	if path != "" {
		b.cfg.Detector.ModelPath = path
	}
	return b
}

// WithDetector replaces the detector configuration, keeping the model path.
func (b *Builder) WithDetector(cfg detector.Config) *Builder {
	path := b.cfg.Detector.ModelPath
	b.cfg.Detector = cfg
	if cfg.ModelPath == "" {
		b.cfg.Detector.ModelPath = path
	}
	return b
}

// WithBalance replaces the enhancement configuration.
func (b *Builder) WithBalance(cfg balance.Config) *Builder {
	b.cfg.Balance = cfg
	return b
}

// Build constructs the Runner.
func (b *Builder) Build() (*Runner, error) {
	det, err := detector.New(b.cfg.Detector.ModelPath, b.cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector: %w", err)
	}
	return &Runner{detector: det, cfg: b.cfg}, nil
}

// Runner executes detection passes. It is single-shot and synchronous; reuse
// is sequential only.
type Runner struct {
	detector *detector.Detector
	cfg      Config
}

// Close releases the detector.
func (r *Runner) Close() error {
	if r.detector != nil {
		if err := r.detector.Close(); err != nil {
			return err
		}
		r.detector = nil
	}
	return nil
}

// Detector exposes the underlying detector.
func (r *Runner) Detector() *detector.Detector { return r.detector }

// ProcessImage runs one detection pass and summarizes it.
func (r *Runner) ProcessImage(img image.Image, source string) (*Result, error) {
	if r.detector == nil {
		return nil, errors.New("pipeline is closed")
	}
	if img == nil {
		return nil, errors.New("input image is nil")
	}

	start := time.Now()
	detections, err := r.detector.Detect(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	res := &Result{
		Source:           source,
		Width:            b.Dx(),
		Height:           b.Dy(),
		Detections:       detections,
		ProcessingTimeNs: time.Since(start).Nanoseconds(),
	}
	summarize(res)
	return res, nil
}

// Compare runs detection on the original image and on its color-corrected
// variant (white-patch balance, sharpen, optional smoothing) and returns
// both results plus the balanced and enhanced images.
func (r *Runner) Compare(img image.Image, source string, region balance.Region,
) (*Comparison, image.Image, image.Image, error) {
	original, err := r.ProcessImage(img, source)
	if err != nil {
		return nil, nil, nil, err
	}

	balanced, enhanced, err := balance.Apply(img, region, r.cfg.Balance)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("color balancing failed: %w", err)
	}

	corrected, err := r.ProcessImage(enhanced, source)
	if err != nil {
		return nil, nil, nil, err
	}

	cmp := &Comparison{
		Region:    region,
		Original:  original,
		Corrected: corrected,
	}
	return cmp, balanced, enhanced, nil
}
