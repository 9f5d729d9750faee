package detector

import (
	"errors"
	"fmt"
	"os"

	"github.com/marlin-vision/marlin/internal/models"
	"github.com/marlin-vision/marlin/internal/onnx"
)

// Config holds configuration for the marine object detector. A nil
// AllowList/DenyList means the corresponding filter is not configured; an
// empty non-nil AllowList keeps nothing.
type Config struct {
	ModelPath      string         // Path to ONNX detection model
	ScoreThreshold float32        // Minimum score for decoded detections (default: 0.0)
	MaxResults     int            // Maximum results to return; <= 0 means unbounded
	AllowList      []string       // Optional label allow-list
	DenyList       []string       // Optional label deny-list
	NumThreads     int            // Number of CPU threads (default: 0 for auto)
	GPU            onnx.GPUConfig // GPU acceleration configuration
}

// DefaultConfig returns a default detector configuration.
func DefaultConfig() Config {
	return Config{
		ModelPath:      models.GetDetectionModelPath(""),
		ScoreThreshold: 0.0,
		MaxResults:     -1,
		AllowList:      nil,
		DenyList:       nil,
		NumThreads:     0,
		GPU:            onnx.DefaultGPUConfig(),
	}
}

// UpdateModelPath updates the ModelPath based on modelsDir.
func (c *Config) UpdateModelPath(modelsDir string) {
	c.ModelPath = models.GetDetectionModelPath(modelsDir)
}

// validateConfig validates the detector configuration.
func validateConfig(config Config) error {
	if config.ModelPath == "" {
		return errors.New("model path cannot be empty")
	}
	if config.ScoreThreshold < 0 || config.ScoreThreshold > 1 {
		return fmt.Errorf("score threshold %.2f out of range [0,1]", config.ScoreThreshold)
	}
	return onnx.ValidateGPUConfig(config.GPU)
}

// validateModelFile checks if the model file exists.
func validateModelFile(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}
