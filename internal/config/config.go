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
	// Provider selects the reasoning collaborator backend ("gemini" or "anthropic").
	Provider string `json:"provider,omitempty"`
	// APIKey for the selected provider. Falls back to GEMINI_API_KEY or
	// ANTHROPIC_API_KEY in the environment.
	APIKey string `json:"api_key,omitempty"`
	// Rulebook is an optional path to a YAML rulebook override.
	Rulebook string `json:"rulebook,omitempty"`

	// MaxIterations caps validate-correct rounds per stage (default 3).
	MaxIterations int `json:"max_iterations,omitempty"`
	// CallTimeoutSeconds bounds a single collaborator call (default 90).
	CallTimeoutSeconds int `json:"call_timeout_seconds,omitempty"`
	// Concurrency bounds parallel document validation in batch mode.
	Concurrency int `json:"concurrency,omitempty"`

	// NoCorrections disables the correction requester; documents are
	// validated once per stage and never repaired.
	NoCorrections bool `json:"no_corrections,omitempty"`
	// Verbose prints per-stage detail while the pipeline runs.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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
	switch c.Provider {
	case "", "gemini", "anthropic":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.MaxIterations < 0 {
		return fmt.Errorf("config error: 'max_iterations' must be non-negative")
	}
	if c.CallTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'call_timeout_seconds' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.Rulebook != "" {
		if _, err := os.Stat(c.Rulebook); os.IsNotExist(err) {
			return fmt.Errorf("config error: rulebook file not found: %s", c.Rulebook)
		}
	}

	return nil
}
