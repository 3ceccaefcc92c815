package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// DatabasePath is the SQLite analytics database location
	DatabasePath string `json:"database_path"`

	// DefaultPeriodDays is the report window used when none is given
	DefaultPeriodDays int `json:"default_period_days"`

	// BiasLookup configures the optional external source-classification API
	BiasLookup BiasLookupConfig `json:"bias_lookup"`

	// ExportDir is where exports are written when no path is given
	ExportDir string `json:"export_dir"`
}

// BiasLookupConfig holds settings for the external bias-classification API.
// Both fields must be set for the lookup to be used; otherwise the
// classifier falls back to its built-in table and neutral defaults.
type BiasLookupConfig struct {
	Endpoint string `json:"endpoint,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:      filepath.Join(home, ".newslens", "analytics.db"),
		DefaultPeriodDays: 30,
		ExportDir:         ".",
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newslens", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.AutoPopulateFromEnv()

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if path := os.Getenv("NEWSLENS_DB"); path != "" {
		c.DatabasePath = path
	}
	if endpoint := os.Getenv("NEWSLENS_BIAS_ENDPOINT"); endpoint != "" {
		c.BiasLookup.Endpoint = endpoint
	}
	if key := os.Getenv("NEWSLENS_BIAS_API_KEY"); key != "" {
		c.BiasLookup.APIKey = key
	}
}
