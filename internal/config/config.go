// Package config handles configuration loading from TOML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Discover  DiscoverConfig  `toml:"discover"`
	Index     IndexConfig     `toml:"index"`
	Languages LanguagesConfig `toml:"languages"`
}

// DiscoverConfig holds interesting-class discovery settings.
type DiscoverConfig struct {
	// PolyDepth bounds how many subclass-substitution levels discovery
	// explores. Zero disables subclass search entirely.
	PolyDepth int `toml:"poly_depth"`
}

// IndexConfig holds parse-index cache settings.
type IndexConfig struct {
	Cache    bool `toml:"cache"`
	TTLHours int  `toml:"ttl_hours"`
}

// TTLOrDefault returns the configured cache TTL or 168 hours if unset.
func (i IndexConfig) TTLOrDefault() int {
	if i.TTLHours <= 0 {
		return 168
	}
	return i.TTLHours
}

// LanguagesConfig restricts which language adapters are consulted.
// An empty list enables every registered adapter.
type LanguagesConfig struct {
	Enabled []string `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Discover: DiscoverConfig{PolyDepth: 1},
	}
}

// Load reads configuration from a TOML file and applies environment variable
// overrides. An empty path yields the defaults; a named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	if c.Discover.PolyDepth < 0 || c.Discover.PolyDepth > 10 {
		errs = append(errs, fmt.Errorf("discover.poly_depth=%d must be between 0 and 10", c.Discover.PolyDepth))
	}
	if c.Index.TTLHours < 0 {
		errs = append(errs, fmt.Errorf("index.ttl_hours=%d must not be negative", c.Index.TTLHours))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"CODESCOPE_POLY_DEPTH", func(v string) {
			if n, err := strconv.Atoi(v); err == nil {
				cfg.Discover.PolyDepth = n
			}
		}},
		{"CODESCOPE_INDEX_CACHE", func(v string) {
			if b, err := strconv.ParseBool(v); err == nil {
				cfg.Index.Cache = b
			}
		}},
	} {
		if v := os.Getenv(setter.env); v != "" {
			setter.apply(v)
		}
	}
}

// DataDir returns the path to the codescope data directory
// (~/.config/codescope).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "codescope"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}
