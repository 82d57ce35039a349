/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/niokit/pkg/channel"
	"github.com/ssargent/niokit/pkg/charset"
	"github.com/ssargent/niokit/pkg/transfer"
)

// ErrInvalidConfig is returned by Validate and LoadConfig for out-of-range settings
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the niokit configuration
type Config struct {
	BufferSize    int     `yaml:"buffer_size"`
	TransferChunk int     `yaml:"transfer_chunk"`
	Charset       string  `yaml:"charset"`
	Copy          Copy    `yaml:"copy"`
	Logging       Logging `yaml:"logging"`
}

// Copy contains file copy configuration
type Copy struct {
	Method string `yaml:"method"`
	Atomic bool   `yaml:"atomic"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		BufferSize:    transfer.DefaultBufferSize,
		TransferChunk: channel.DefaultTransferChunk,
		Charset:       charset.DefaultName,
		Copy: Copy{
			Method: transfer.Buffered.String(),
			Atomic: false,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks every setting and reports the first one out of range
func (c *Config) Validate() error {
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size must be positive, got %d", ErrInvalidConfig, c.BufferSize)
	}
	if c.TransferChunk <= 0 {
		return fmt.Errorf("%w: transfer_chunk must be positive, got %d", ErrInvalidConfig, c.TransferChunk)
	}
	if !charset.IsSupported(c.Charset) {
		return fmt.Errorf("%w: unsupported charset %q", ErrInvalidConfig, c.Charset)
	}
	if _, err := transfer.ParseMethod(c.Copy.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// CopyOptions converts the copy settings into transfer options
func (c *Config) CopyOptions() (transfer.Options, error) {
	method, err := transfer.ParseMethod(c.Copy.Method)
	if err != nil {
		return transfer.Options{}, err
	}
	return transfer.Options{
		Method:        method,
		BufferSize:    c.BufferSize,
		TransferChunk: c.TransferChunk,
		Atomic:        c.Copy.Atomic,
	}, nil
}

// LoadConfig loads configuration from the specified path.
// Settings missing from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves the configuration to the specified path with owner-only permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./niokit.yaml"
	}

	// ~/.config/niokit/config.yaml on Linux and macOS
	return filepath.Join(homeDir, ".config", "niokit", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
