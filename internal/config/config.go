// Package config loads engine configuration from chaser.toml, an optional
// per-environment overlay, and environment variables. Every section
// follows the same three-phase finalize: defaults, then environment
// overrides, then validation.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "chaser.toml"
	OverlayConfigPattern = "chaser.%s.toml"

	EnvChaserEnv     = "CHASER_ENV"
	EnvChaserVersion = "CHASER_VERSION"
)

// Config is the root configuration for the inquiry engine.
type Config struct {
	Run      RunConfig      `toml:"run"`
	NetSuite NetSuiteConfig `toml:"netsuite"`
	Graph    GraphConfig    `toml:"graph"`
	Agent    AgentConfig    `toml:"agent"`
	Ledger   LedgerConfig   `toml:"ledger"`
	Report   ReportConfig   `toml:"report"`
	Version  string         `toml:"version"`
}

// Env returns the CHASER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvChaserEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no chaser.toml exists, defaults and
// environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Run.Merge(&overlay.Run)
	c.NetSuite.Merge(&overlay.NetSuite)
	c.Graph.Merge(&overlay.Graph)
	c.Ledger.Merge(&overlay.Ledger)
	c.Report.Merge(&overlay.Report)
	MergeAgent(&c.Agent, &overlay.Agent)
}

// Finalize applies defaults, environment overrides, and validation to
// every section.
func (c *Config) Finalize() error {
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if v := os.Getenv(EnvChaserVersion); v != "" {
		c.Version = v
	}

	if err := c.Run.Finalize(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := c.NetSuite.Finalize(); err != nil {
		return fmt.Errorf("netsuite: %w", err)
	}
	if err := c.Graph.Finalize(); err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	if err := c.Ledger.Finalize(); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if err := c.Report.Finalize(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvChaserEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
