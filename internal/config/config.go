package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/image-editor/internal/editor"
	"github.com/ironsheep/image-editor/internal/imaging"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "IMAGE_EDITOR_LOG_LEVEL"
	EnvOutputDir = "IMAGE_EDITOR_OUTPUT_DIR"
)

// Config represents the application configuration
type Config struct {
	OutputDir      string  `yaml:"output_dir"`
	FilenameSuffix string  `yaml:"filename_suffix"`
	OutputFormat   string  `yaml:"output_format"`
	JPEGQuality    float64 `yaml:"jpeg_quality"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	Resampler      string  `yaml:"resampler"`
	JPEGBackground string  `yaml:"jpeg_background"`
	PNGCompression string  `yaml:"png_compression"`
	LogLevel       string  `yaml:"log_level"`
	LogFile        string  `yaml:"log_file"`
	WatchSource    bool    `yaml:"watch_source"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := editor.DefaultOptions()
	return &Config{
		OutputDir:      ".",
		FilenameSuffix: imaging.DefaultSuffix,
		OutputFormat:   string(opts.Format),
		JPEGQuality:    opts.Quality,
		Width:          opts.Width,
		Height:         opts.Height,
		Resampler:      imaging.DefaultResampler,
		JPEGBackground: imaging.DefaultBackground,
		PNGCompression: "default",
		LogLevel:       "info",
		WatchSource:    true,
	}
}

// Load reads and parses the configuration file. Keys missing from the file
// keep their defaults. An empty path yields Default with env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
}

// Validate checks every setting that has a restricted range
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if _, err := imaging.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 1 {
		return fmt.Errorf("jpeg_quality must be within [0,1], got %v", c.JPEGQuality)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := imaging.NewResampler(c.Resampler); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	if _, err := imaging.ParseBackground(c.JPEGBackground); err != nil {
		return fmt.Errorf("jpeg_background: %w", err)
	}
	if _, err := imaging.ParsePNGCompression(c.PNGCompression); err != nil {
		return fmt.Errorf("png_compression: %w", err)
	}
	switch c.LogLevel {
	case "", "panic", "fatal", "error", "warn", "warning", "info", "debug", "trace":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	return nil
}

// SessionConfig builds the collaborators of an editor session from the
// settings. The configuration must be valid.
func (c *Config) SessionConfig() (editor.Config, error) {
	resampler, err := imaging.NewResampler(c.Resampler)
	if err != nil {
		return editor.Config{}, err
	}
	background, err := imaging.ParseBackground(c.JPEGBackground)
	if err != nil {
		return editor.Config{}, err
	}
	compression, err := imaging.ParsePNGCompression(c.PNGCompression)
	if err != nil {
		return editor.Config{}, err
	}
	format, err := imaging.ParseFormat(c.OutputFormat)
	if err != nil {
		return editor.Config{}, err
	}

	return editor.Config{
		Renderer: imaging.NewRenderer(resampler),
		Encoder:  imaging.NewEncoder(background, compression),
		Exporter: imaging.DirExporter{Dir: c.OutputDir},
		Suffix:   c.FilenameSuffix,
		Options: editor.Options{
			Width:   c.Width,
			Height:  c.Height,
			Format:  format,
			Quality: c.JPEGQuality,
		},
	}, nil
}
