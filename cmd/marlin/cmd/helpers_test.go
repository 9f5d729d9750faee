package cmd

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlin-vision/marlin/internal/balance"
	"github.com/marlin-vision/marlin/internal/config"
)

func TestParsePatch(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    balance.Region
		wantErr bool
	}{
		{"valid", "10,20,30,40", balance.Region{Row: 10, Col: 20, Height: 30, Width: 40}, false},
		{"spaces", " 1, 2, 3, 4 ", balance.Region{Row: 1, Col: 2, Height: 3, Width: 4}, false},
		{"too few parts", "1,2,3", balance.Region{}, true},
		{"not numbers", "a,b,c,d", balance.Region{}, true},
		{"zero height", "0,0,0,10", balance.Region{}, true},
		{"negative width", "0,0,10,-5", balance.Region{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePatch(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#40eb34")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x40, G: 0xeb, B: 0x34, A: 255}, c)

	_, err = parseHexColor("chartreuse")
	require.Error(t, err)
}

func TestParseGPUMemLimit(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"auto", 2 * 1024 * 1024 * 1024, false},
		{"1024", 1024, false},
		{"512KB", 512 * 1024, false},
		{"256mb", 256 * 1024 * 1024, false},
		{"2GB", 2 * 1024 * 1024 * 1024, false},
		{"lots", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseGPUMemLimit(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildDetectorConfig(t *testing.T) {
	cfg := &config.Config{
		ModelsDir: "/models",
		Detector: config.DetectorConfig{
			ScoreThreshold: 0.6,
			MaxResults:     5,
			AllowList:      []string{"fish"},
			DenyList:       []string{"crab"},
			NumThreads:     4,
		},
		GPU: config.GPUConfig{Enabled: true, Device: 1, MemoryLimit: "1GB"},
	}

	dc, err := buildDetectorConfig(cfg)
	require.NoError(t, err)

	assert.Contains(t, dc.ModelPath, "/models")
	assert.Equal(t, float32(0.6), dc.ScoreThreshold)
	assert.Equal(t, 5, dc.MaxResults)
	assert.Equal(t, []string{"fish"}, dc.AllowList)
	assert.Equal(t, []string{"crab"}, dc.DenyList)
	assert.Equal(t, 4, dc.NumThreads)
	assert.True(t, dc.GPU.UseGPU)
	assert.Equal(t, 1, dc.GPU.DeviceID)
	assert.Equal(t, uint64(1024*1024*1024), dc.GPU.GPUMemLimit)
}

func TestBuildDetectorConfig_ExplicitModelPath(t *testing.T) {
	cfg := &config.Config{
		Detector: config.DetectorConfig{ModelPath: "/direct/model.onnx"},
	}
	dc, err := buildDetectorConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/direct/model.onnx", dc.ModelPath)
}

func TestBuildDetectorConfig_BadMemLimit(t *testing.T) {
	cfg := &config.Config{
		GPU: config.GPUConfig{Enabled: true, MemoryLimit: "lots"},
	}
	_, err := buildDetectorConfig(cfg)
	require.Error(t, err)
}

func TestBuildBalanceConfig(t *testing.T) {
	cfg := &config.Config{
		Balance: config.BalanceConfig{SharpenFactor: 3.0, SmoothSigma: 0.5},
	}
	bc := buildBalanceConfig(cfg)
	assert.Equal(t, 3.0, bc.SharpenFactor)
	assert.Equal(t, 0.5, bc.SmoothSigma)
}
