// Package detector runs marine object detection over ONNX models of the
// fixed four-output family: locations, class indices, scores, count.
package detector

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/marlin-vision/marlin/internal/meta"
)

// Detector performs object detection using ONNX Runtime. Each Detect call is
// a pure function of (image, config). A Detector may be reused sequentially;
// concurrent Detect calls require external synchronization.
type Detector struct {
	config   Config
	engine   Engine
	io       modelIO
	metadata *meta.Metadata
}

// New creates a detector for the given model. The model container and its
// bundled label file are read once, read-only, at construction. Construction
// fails fatally on an invalid container (meta.InvalidModelError), a violated
// output convention (ModelShapeError), or unavailable acceleration
// (UnsupportedAcceleratorError).
func New(modelPath string, config Config) (*Detector, error) {
	config.ModelPath = modelPath
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	if err := validateModelFile(modelPath); err != nil {
		return nil, err
	}

	slog.Debug("Initializing detector",
		"model_path", modelPath,
		"gpu_enabled", config.GPU.UseGPU,
		"score_threshold", config.ScoreThreshold,
		"max_results", config.MaxResults)

	metadata, err := meta.Extract(modelPath)
	if err != nil {
		return nil, err
	}

	mio, err := inspectModel(modelPath)
	if err != nil {
		return nil, err
	}

	engine, err := newEngine(modelPath, mio, config)
	if err != nil {
		return nil, err
	}

	slog.Debug("Detector initialized successfully",
		"labels", len(metadata.Labels),
		"input_size", fmt.Sprintf("%dx%d", mio.width, mio.height),
		"quantized", mio.quantized)

	return &Detector{
		config:   config,
		engine:   engine,
		io:       mio,
		metadata: metadata,
	}, nil
}

// Close releases resources used by the detector.
func (d *Detector) Close() error {
	if d.engine != nil {
		if err := d.engine.Close(); err != nil {
			return err
		}
		d.engine = nil
	}
	return nil
}

// Detect runs detection on an input image of any size and returns the ranked
// and filtered detections in source-image pixel coordinates. The returned
// slice is freshly allocated and owned by the caller.
func (d *Detector) Detect(img image.Image) ([]Detection, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if d.engine == nil {
		return nil, errors.New("detector is closed")
	}

	start := time.Now()
	bounds := img.Bounds()

	tensor, err := preprocess(img, d.io, d.metadata)
	if err != nil {
		return nil, fmt.Errorf("preprocessing failed: %w", err)
	}

	raw, err := d.engine.Run(tensor)
	if err != nil {
		return nil, err
	}

	decoded, err := decodeOutputs(raw, d.metadata.Labels, d.config.ScoreThreshold,
		bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, fmt.Errorf("decoding failed: %w", err)
	}

	ranked := Rank(decoded, d.config)

	slog.Debug("Detection completed",
		"decoded", len(decoded),
		"returned", len(ranked),
		"duration", time.Since(start))

	return ranked, nil
}

// GetConfig returns a copy of the detector's configuration.
func (d *Detector) GetConfig() Config { return d.config }

// Labels returns the model's label list; index equals class index.
func (d *Detector) Labels() []string {
	labels := make([]string, len(d.metadata.Labels))
	copy(labels, d.metadata.Labels)
	return labels
}

// InputSize returns the model's fixed input width and height.
func (d *Detector) InputSize() (int, int) { return d.io.width, d.io.height }

// GetModelInfo returns information about the loaded detection model.
func (d *Detector) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"model_path":      d.config.ModelPath,
		"input_name":      d.io.input.Name,
		"input_shape":     d.io.input.Dimensions,
		"input_quantized": d.io.quantized,
		"label_count":     len(d.metadata.Labels),
		"mean":            d.metadata.Mean,
		"std":             d.metadata.Std,
		"num_threads":     d.config.NumThreads,
		"gpu": map[string]interface{}{
			"enabled":            d.config.GPU.UseGPU,
			"device_id":          d.config.GPU.DeviceID,
			"memory_limit_bytes": d.config.GPU.GPUMemLimit,
		},
	}
}
