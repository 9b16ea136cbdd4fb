package models

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds configuration for the scanner
type Config struct {
	// Lockfiles to audit
	Paths []string `toml:"paths"`

	// Output settings
	OutputFormat string `toml:"format"` // "terminal", "json", "yaml", "sarif"
	OutputFile   string `toml:"output"` // Optional output file path

	// Behavior settings
	FailOnUnrecognized bool `toml:"fail_on_unrecognized"` // Exit with code 1 if any license is unrecognized
	FetchMetadata      bool `toml:"fetch_metadata"`       // Query crates.io for authors, links and licenses

	// Cache settings
	CacheTTL time.Duration `toml:"cache_ttl"`
	CacheDir string        `toml:"cache_dir"` // Defaults to the user cache directory
	NoCache  bool          `toml:"no_cache"`

	// API settings
	Timeout       time.Duration `toml:"timeout"`
	MaxConcurrent int           `toml:"concurrency"`
	RegistryURL   string        `toml:"registry_url"`

	Verbose bool `toml:"verbose"`
}

// DefaultRegistryURL is the crates.io API base
const DefaultRegistryURL = "https://crates.io/api/v1"

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Paths:         []string{"Cargo.lock"},
		OutputFormat:  "terminal",
		CacheTTL:      24 * time.Hour,
		Timeout:       60 * time.Second,
		MaxConcurrent: 10,
		RegistryURL:   DefaultRegistryURL,
	}
}

// LoadConfig decodes a TOML config file on top of base.
// Keys missing from the file keep the value from base.
// Durations are written as strings such as "12h" or "30s".
func LoadConfig(path string, base *Config) (*Config, error) {
	cfg := *base
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks that the config values are usable
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "terminal", "json", "yaml", "sarif":
	default:
		return fmt.Errorf("unknown output format %q", c.OutputFormat)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
