// Package config provides configuration loading and management for
// elementalscope. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumWorkers caps how many scan folders load concurrently
		NumWorkers int `yaml:"numWorkers"`

		// BoundaryThreshold is the foreground cutoff used when trimming
		// the comparison composite
		BoundaryThreshold float64 `yaml:"boundaryThreshold"`

		// MarginPercent is the fraction of each axis added around the
		// detected content when framing a comparison
		MarginPercent float64 `yaml:"marginPercent"`

		// ZoomPercent contracts the framed view horizontally toward its
		// center, in [0,1]
		ZoomPercent float64 `yaml:"zoomPercent"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// WriteHDF5 controls whether loaded CSV folders are cached and
		// stitched results are written as HDF5 files
		WriteHDF5 bool `yaml:"writeHDF5"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default processing parameters
	cfg.Processing.NumWorkers = runtime.NumCPU()
	cfg.Processing.BoundaryThreshold = 0
	cfg.Processing.MarginPercent = 0.05
	cfg.Processing.ZoomPercent = 0

	// Set default output parameters
	cfg.Output.Verbose = true
	cfg.Output.WriteHDF5 = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
