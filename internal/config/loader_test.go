package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.InDelta(t, 0.5, cfg.Detector.ScoreThreshold, 1e-9)
	assert.Equal(t, -1, cfg.Detector.MaxResults)
	assert.InDelta(t, 2.0, cfg.Balance.SharpenFactor, 1e-9)
	assert.InDelta(t, 1.0, cfg.Balance.SmoothSigma, 1e-9)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "#40eb34", cfg.Output.BoxColor)
	assert.Equal(t, "#000000", cfg.Output.TextColor)
	assert.False(t, cfg.GPU.Enabled)
}

func TestLoadWithFile(t *testing.T) {
	viper.Reset()

	content := `
log_level: debug
detector:
  score_threshold: 0.75
  max_results: 3
  deny_list:
    - jellyfish
balance:
  sharpen_factor: 1.5
output:
  format: json
gpu:
  enabled: true
  device: 1
  memory_limit: 2GB
`
	path := filepath.Join(t.TempDir(), "marlin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.InDelta(t, 0.75, cfg.Detector.ScoreThreshold, 1e-9)
	assert.Equal(t, 3, cfg.Detector.MaxResults)
	assert.Equal(t, []string{"jellyfish"}, cfg.Detector.DenyList)
	assert.InDelta(t, 1.5, cfg.Balance.SharpenFactor, 1e-9)
	// Unset keys keep their defaults.
	assert.InDelta(t, 1.0, cfg.Balance.SmoothSigma, 1e-9)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.GPU.Enabled)
	assert.Equal(t, 1, cfg.GPU.Device)
	assert.Equal(t, "2GB", cfg.GPU.MemoryLimit)
}

func TestLoadWithFile_InvalidValues(t *testing.T) {
	viper.Reset()

	content := `
detector:
  score_threshold: 3.0
`
	path := filepath.Join(t.TempDir(), "marlin.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadWithFile_Missing(t *testing.T) {
	viper.Reset()

	_, err := NewLoader().LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("MARLIN_LOG_LEVEL", "warn")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}
