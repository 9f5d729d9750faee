package config

// Config represents the complete configuration for the marlin application.
// It supports loading from configuration files, environment variables, and
// command-line flags.
type Config struct {
	// Global settings
	ModelsDir string `mapstructure:"models_dir" yaml:"models_dir" json:"models_dir"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose   bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Detection settings
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector" json:"detector"`

	// Color balancing settings
	Balance BalanceConfig `mapstructure:"balance" yaml:"balance" json:"balance"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// GPU configuration
	GPU GPUConfig `mapstructure:"gpu" yaml:"gpu" json:"gpu"`
}

// DetectorConfig contains object detection settings.
type DetectorConfig struct {
	ModelPath      string   `mapstructure:"model_path" yaml:"model_path" json:"model_path"`
	ScoreThreshold float64  `mapstructure:"score_threshold" yaml:"score_threshold" json:"score_threshold"`
	MaxResults     int      `mapstructure:"max_results" yaml:"max_results" json:"max_results"`
	AllowList      []string `mapstructure:"allow_list" yaml:"allow_list" json:"allow_list"`
	DenyList       []string `mapstructure:"deny_list" yaml:"deny_list" json:"deny_list"`
	NumThreads     int      `mapstructure:"num_threads" yaml:"num_threads" json:"num_threads"`
}

// BalanceConfig contains color-correction enhancement settings.
type BalanceConfig struct {
	SharpenFactor float64 `mapstructure:"sharpen_factor" yaml:"sharpen_factor" json:"sharpen_factor"`
	SmoothSigma   float64 `mapstructure:"smooth_sigma" yaml:"smooth_sigma" json:"smooth_sigma"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
	BoxColor   string `mapstructure:"box_color" yaml:"box_color" json:"box_color"`
	TextColor  string `mapstructure:"text_color" yaml:"text_color" json:"text_color"`
}

// GPUConfig contains GPU acceleration settings.
type GPUConfig struct {
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Device      int    `mapstructure:"device" yaml:"device" json:"device"`
	MemoryLimit string `mapstructure:"memory_limit" yaml:"memory_limit" json:"memory_limit"`
}
