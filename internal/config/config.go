// Package config provides configuration loading and validation for the
// resume builder server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Config represents configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or
// must be provided via CLI flags.
type Config struct {
	// Server
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // Listen address, e.g. ":8080"

	// Storage. When DatabaseURL is set projects persist to PostgreSQL,
	// otherwise to JSON files under DataDir.
	DataDir     string `json:"data_dir,omitempty" yaml:"data_dir,omitempty"`
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"`

	// Behavior
	RequireAuth          bool `json:"require_auth,omitempty" yaml:"require_auth,omitempty"`                     // Require JWT auth on project routes
	RateLimitPerMinute   int  `json:"rate_limit_per_minute,omitempty" yaml:"rate_limit_per_minute,omitempty"`   // Requests per client per minute
	ExportTimeoutSeconds int  `json:"export_timeout_seconds,omitempty" yaml:"export_timeout_seconds,omitempty"` // Headless browser budget for one PDF
	Verbose              bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`                               // Print detailed debug information
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		Addr:                 ":8080",
		DataDir:              "data",
		RateLimitPerMinute:   120,
		ExportTimeoutSeconds: 60,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config error: 'rate_limit_per_minute' must be non-negative")
	}
	if c.ExportTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'export_timeout_seconds' must be non-negative")
	}
	if c.RequireAuth && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'require_auth' needs 'database_url'; accounts live in the database")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled
// from defaults. This is used to apply config file values as defaults
// for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RateLimitPerMinute == 0 {
		result.RateLimitPerMinute = defaults.RateLimitPerMinute
	}
	if result.ExportTimeoutSeconds == 0 {
		result.ExportTimeoutSeconds = defaults.ExportTimeoutSeconds
	}
	if !result.RequireAuth {
		result.RequireAuth = defaults.RequireAuth
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
