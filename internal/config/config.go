// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	File    string `json:"file,omitempty"`    // Path to CSV file to import
	Preset  string `json:"preset,omitempty"`  // Path to a column mapping preset
	Output  string `json:"output,omitempty"`  // Path to write imported records as JSON
	Verbose bool   `json:"verbose,omitempty"` // Print detailed progress information

	// Import behavior
	BatchSize int  `json:"batch_size,omitempty"` // Rows converted per batch
	Commit    bool `json:"commit,omitempty"`     // Persist imported applications to the database

	// Duplicate detection overrides
	HighThreshold float64 `json:"high_threshold,omitempty"` // Confidence above which merge is recommended
	LowThreshold  float64 `json:"low_threshold,omitempty"`  // Confidence below which pairs are ignored

	// Server
	Port        int    `json:"port,omitempty"`         // HTTP server port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are handled by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.BatchSize < 0 {
		return fmt.Errorf("config error: 'batch_size' must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be a valid port number")
	}

	if c.HighThreshold != 0 && (c.HighThreshold <= 0 || c.HighThreshold > 1) {
		return fmt.Errorf("config error: 'high_threshold' must be in (0, 1]")
	}
	if c.LowThreshold != 0 && (c.LowThreshold <= 0 || c.LowThreshold > 1) {
		return fmt.Errorf("config error: 'low_threshold' must be in (0, 1]")
	}
	if c.HighThreshold != 0 && c.LowThreshold != 0 && c.LowThreshold > c.HighThreshold {
		return fmt.Errorf("config error: 'low_threshold' cannot exceed 'high_threshold'")
	}

	if c.File != "" {
		if _, err := os.Stat(c.File); os.IsNotExist(err) {
			return fmt.Errorf("config error: import file not found: %s", c.File)
		}
	}
	if c.Preset != "" {
		if _, err := os.Stat(c.Preset); os.IsNotExist(err) {
			return fmt.Errorf("config error: preset file not found: %s", c.Preset)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.File == "" {
		result.File = defaults.File
	}
	if result.Preset == "" {
		result.Preset = defaults.Preset
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	if result.HighThreshold == 0 {
		result.HighThreshold = defaults.HighThreshold
	}
	if result.LowThreshold == 0 {
		result.LowThreshold = defaults.LowThreshold
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
