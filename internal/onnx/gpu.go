package onnx

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/yalue/onnxruntime_go"
)

// GPUConfig holds the CUDA execution provider settings.
type GPUConfig struct {
	UseGPU                bool   // enable CUDA acceleration
	DeviceID              int    // CUDA device ID
	GPUMemLimit           uint64 // GPU memory limit in bytes; 0 means unlimited
	ArenaExtendStrategy   string // "kNextPowerOfTwo" or "kSameAsRequested"
	CUDNNConvAlgoSearch   string // "EXHAUSTIVE", "HEURISTIC" or "DEFAULT"
	DoCopyInDefaultStream bool
}

// DefaultGPUConfig returns the CPU-only default configuration.
func DefaultGPUConfig() GPUConfig {
	return GPUConfig{
		UseGPU:                false,
		DeviceID:              0,
		GPUMemLimit:           0,
		ArenaExtendStrategy:   "kNextPowerOfTwo",
		CUDNNConvAlgoSearch:   "DEFAULT",
		DoCopyInDefaultStream: true,
	}
}

// cudaSettings renders the provider options map for the runtime.
func (c GPUConfig) cudaSettings() map[string]string {
	settings := map[string]string{
		"device_id": strconv.Itoa(c.DeviceID),
	}
	if c.GPUMemLimit > 0 {
		settings["gpu_mem_limit"] = strconv.FormatUint(c.GPUMemLimit, 10)
	}
	if c.ArenaExtendStrategy != "" {
		settings["arena_extend_strategy"] = c.ArenaExtendStrategy
	}
	if c.CUDNNConvAlgoSearch != "" {
		settings["cudnn_conv_algo_search"] = c.CUDNNConvAlgoSearch
	}
	if c.DoCopyInDefaultStream {
		settings["do_copy_in_default_stream"] = "1"
	} else {
		settings["do_copy_in_default_stream"] = "0"
	}
	return settings
}

// ConfigureSessionForGPU appends the CUDA execution provider to the session
// options. A failure here is fatal for the caller; the detector never falls
// back to the CPU silently when acceleration was requested.
func ConfigureSessionForGPU(sessionOptions *onnxruntime_go.SessionOptions, config GPUConfig) error {
	if !config.UseGPU {
		return nil
	}

	cudaOpts, err := onnxruntime_go.NewCUDAProviderOptions()
	if err != nil {
		return fmt.Errorf("failed to create CUDA provider options (GPU may not be available): %w", err)
	}
	defer func() {
		if err := cudaOpts.Destroy(); err != nil {
			slog.Warn("failed to destroy CUDA provider options", "error", err)
		}
	}()

	if err := cudaOpts.Update(config.cudaSettings()); err != nil {
		return fmt.Errorf("failed to update CUDA provider options: %w", err)
	}
	if err := sessionOptions.AppendExecutionProviderCUDA(cudaOpts); err != nil {
		return fmt.Errorf("failed to append CUDA execution provider: %w", err)
	}
	return nil
}

// GetRecommendedGPUMemLimit is the value behind the "auto" memory limit
// setting. 2 GiB leaves headroom for other processes on shared hosts.
func GetRecommendedGPUMemLimit() uint64 {
	return 2 << 30
}

var (
	validArenaStrategies = map[string]bool{
		"kNextPowerOfTwo":  true,
		"kSameAsRequested": true,
	}
	validConvAlgoSearch = map[string]bool{
		"EXHAUSTIVE": true,
		"HEURISTIC":  true,
		"DEFAULT":    true,
	}
)

// ValidateGPUConfig checks the configuration; CPU-only configs always pass.
func ValidateGPUConfig(config GPUConfig) error {
	if !config.UseGPU {
		return nil
	}
	if config.DeviceID < 0 {
		return fmt.Errorf("device ID must be non-negative, got %d", config.DeviceID)
	}
	if config.ArenaExtendStrategy != "" && !validArenaStrategies[config.ArenaExtendStrategy] {
		return fmt.Errorf("invalid arena extend strategy: %s (must be 'kNextPowerOfTwo' or "+
			"'kSameAsRequested')", config.ArenaExtendStrategy)
	}
	if config.CUDNNConvAlgoSearch != "" && !validConvAlgoSearch[config.CUDNNConvAlgoSearch] {
		return fmt.Errorf("invalid CUDNN conv algo search: %s (must be 'EXHAUSTIVE', 'HEURISTIC', or "+
			"'DEFAULT')", config.CUDNNConvAlgoSearch)
	}
	return nil
}

var libraryNames = map[string]string{
	"linux":   "libonnxruntime.so",
	"darwin":  "libonnxruntime.dylib",
	"windows": "onnxruntime.dll",
}

// getLibraryName returns the runtime library filename for the current OS.
func getLibraryName() (string, error) {
	name, ok := libraryNames[runtime.GOOS]
	if !ok {
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return name, nil
}

// libraryCandidates lists paths to probe, GPU builds first when requested.
func libraryCandidates(useGPU bool) []string {
	var paths []string
	if useGPU {
		paths = append(paths, "/opt/onnxruntime/gpu/lib/libonnxruntime.so")
	}
	paths = append(paths,
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	)

	root, err := projectRoot()
	if err != nil {
		return paths
	}
	libName, err := getLibraryName()
	if err != nil {
		return paths
	}
	if useGPU {
		paths = append(paths, filepath.Join(root, "onnxruntime", "gpu", "lib", libName))
	}
	return append(paths, filepath.Join(root, "onnxruntime", "lib", libName))
}

// projectRoot walks up from the working directory to the go.mod directory.
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("could not find project root")
		}
		dir = parent
	}
}

// SetONNXLibraryPath points the runtime loader at the first shared library
// found among the candidate locations.
func SetONNXLibraryPath(useGPU bool) error {
	for _, path := range libraryCandidates(useGPU) {
		if _, err := os.Stat(path); err == nil {
			onnxruntime_go.SetSharedLibraryPath(path)
			return nil
		}
	}
	return errors.New("ONNX Runtime shared library not found; install it or place it under onnxruntime/lib")
}
