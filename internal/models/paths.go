package models

import (
	"errors"
	"os"
	"path/filepath"
)

// Model name constants to avoid typos and ensure consistency.
const (
	// Detection model trained on the underwater imagery set.
	DetectionDefault = "marine_det.onnx"
)

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "MARLIN_MODELS_DIR"

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	// Start from current working directory
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding go.mod
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path from various sources
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	// Use project root + default models directory
	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	// Fallback to relative path if project root can't be found
	return DefaultModelsDir
}

// GetDetectionModelPath returns the full path to the detection model.
func GetDetectionModelPath(modelsDir string) string {
	return filepath.Join(GetModelsDir(modelsDir), DetectionDefault)
}
