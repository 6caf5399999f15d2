package config

import "os"

const EnvLedgerPath = "CHASER_LEDGER_PATH"

// LedgerConfig locates the run-history database.
type LedgerConfig struct {
	Path string `toml:"path"`
}

// Finalize applies defaults and environment variable overrides.
func (c *LedgerConfig) Finalize() error {
	if c.Path == "" {
		c.Path = "chaser.db"
	}
	if v := os.Getenv(EnvLedgerPath); v != "" {
		c.Path = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *LedgerConfig) Merge(overlay *LedgerConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}
