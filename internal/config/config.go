package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/menta2k/lineprep/pkg/canvas"
	"github.com/menta2k/lineprep/pkg/imageio"
)

// Config holds the application configuration
type Config struct {
	Canvas  CanvasConfig  `json:"canvas" yaml:"canvas"`
	Cropper CropperConfig `json:"cropper" yaml:"cropper"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// CanvasConfig holds configuration for canvas normalization
type CanvasConfig struct {
	Width   int    `json:"width" yaml:"width"`
	Height  int    `json:"height" yaml:"height"`
	Augment bool   `json:"augment" yaml:"augment"`
	Seed    uint64 `json:"seed" yaml:"seed"`
	Filter  string `json:"filter" yaml:"filter"`
}

// CropperConfig holds configuration for content cropping
type CropperConfig struct {
	OutputQuality int `json:"output_quality" yaml:"output_quality"`
}

// OutputConfig holds configuration for output file naming
type OutputConfig struct {
	DefaultFormat string `json:"default_format" yaml:"default_format"`
	OutputDir     string `json:"output_dir" yaml:"output_dir"`
	Prefix        string `json:"prefix" yaml:"prefix"`
	Suffix        string `json:"suffix" yaml:"suffix"`
}

// LoggingConfig selects the zap preset, development or release
type LoggingConfig struct {
	Mode string `json:"mode" yaml:"mode"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:  canvas.DefaultWidth,
			Height: canvas.DefaultHeight,
			Filter: "catmullrom",
		},
		Cropper: CropperConfig{
			OutputQuality: imageio.DefaultQuality,
		},
		Output: OutputConfig{
			DefaultFormat: "png",
			OutputDir:     "./output",
			Suffix:        "_prepared",
		},
		Logging: LoggingConfig{
			Mode: "development",
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file, chosen by
// extension. Fields missing from the file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if isYAML(filename) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	var err error
	if isYAML(filename) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.CanvasSize().Validate(); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}

	if _, err := canvas.FilterByName(c.Canvas.Filter); err != nil {
		return fmt.Errorf("canvas.filter: %w", err)
	}

	if c.Cropper.OutputQuality < 1 || c.Cropper.OutputQuality > 100 {
		return fmt.Errorf("cropper.output_quality must be between 1 and 100")
	}

	if _, err := imageio.FormatFromPath("x." + c.Output.DefaultFormat); err != nil {
		return fmt.Errorf("output.default_format: %w", err)
	}

	if c.Logging.Mode != "development" && c.Logging.Mode != "release" {
		return fmt.Errorf("logging.mode must be development or release")
	}

	return nil
}

// CanvasSize returns the canvas dimensions as a canvas.Config
func (c *Config) CanvasSize() canvas.Config {
	return canvas.Config{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "lineprep", "config.json")
}

func isYAML(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}
