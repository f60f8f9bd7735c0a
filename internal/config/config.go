package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultGhostscript = "gs"
	DefaultPreset      = "ebook"
	DefaultImageDPI    = 300
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Bounds for the image import resolution
	MinImageDPI = 72
	MaxImageDPI = 600
)

// Config holds the settings shared by the pdftools commands
type Config struct {
	// External tool configuration
	Ghostscript string

	// Compression configuration; preset names are validated by the
	// compressor, which owns the list of valid presets
	Preset string

	// Merge configuration
	ImageDPI int

	// Application configuration
	LogLevel    string
	MaxFileSize int64 // Maximum input file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ghostscript: DefaultGhostscript,
		Preset:      DefaultPreset,
		ImageDPI:    DefaultImageDPI,
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Load reads configuration from PDFTOOLS_* environment variables on top of
// the defaults and validates the result. Command line flags are defined by
// each command and take precedence by seeding their defaults from the
// loaded configuration.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("PDFTOOLS")
	viper.AutomaticEnv()

	viper.SetDefault("gs", cfg.Ghostscript)
	viper.SetDefault("preset", cfg.Preset)
	viper.SetDefault("dpi", cfg.ImageDPI)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Ghostscript = viper.GetString("gs")
	cfg.Preset = viper.GetString("preset")
	cfg.ImageDPI = viper.GetInt("dpi")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Ghostscript == "" {
		return errors.New("ghostscript command cannot be empty")
	}

	if c.ImageDPI < MinImageDPI || c.ImageDPI > MaxImageDPI {
		return fmt.Errorf("image dpi must be between %d and %d", MinImageDPI, MaxImageDPI)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Ghostscript: %s, Preset: %s, ImageDPI: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Ghostscript, c.Preset, c.ImageDPI, c.LogLevel, c.MaxFileSize)
}
