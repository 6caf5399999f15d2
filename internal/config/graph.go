package config

import (
	"fmt"
	"os"
	"time"

	"github.com/apachepressure/chaser/internal/mailer"
)

const (
	EnvGraphTenantID     = "CHASER_GRAPH_TENANT_ID"
	EnvGraphClientID     = "CHASER_GRAPH_CLIENT_ID"
	EnvGraphClientSecret = "CHASER_GRAPH_CLIENT_SECRET"
	EnvGraphFromAddress  = "CHASER_GRAPH_FROM_ADDRESS"
	EnvGraphCarbonCopy   = "CHASER_GRAPH_CARBON_COPY"
	EnvGraphTimeout      = "CHASER_GRAPH_TIMEOUT"
)

// GraphConfig holds the Azure app registration for draft creation.
// Credential presence is checked by the mailer at construction so that
// dry runs work without Graph access.
type GraphConfig struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	FromAddress  string `toml:"from_address"`
	CarbonCopy   string `toml:"carbon_copy"`
	Timeout      string `toml:"timeout"`
}

// Mailer converts the section into the mailer's config struct.
func (c *GraphConfig) Mailer() mailer.Config {
	timeout, _ := time.ParseDuration(c.Timeout)
	return mailer.Config{
		TenantID:     c.TenantID,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		FromAddress:  c.FromAddress,
		CarbonCopy:   c.CarbonCopy,
		Timeout:      timeout,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GraphConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GraphConfig) Merge(overlay *GraphConfig) {
	if overlay.TenantID != "" {
		c.TenantID = overlay.TenantID
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.ClientSecret != "" {
		c.ClientSecret = overlay.ClientSecret
	}
	if overlay.FromAddress != "" {
		c.FromAddress = overlay.FromAddress
	}
	if overlay.CarbonCopy != "" {
		c.CarbonCopy = overlay.CarbonCopy
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *GraphConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *GraphConfig) loadEnv() {
	setString := func(envVar string, dst *string) {
		if v := os.Getenv(envVar); v != "" {
			*dst = v
		}
	}

	setString(EnvGraphTenantID, &c.TenantID)
	setString(EnvGraphClientID, &c.ClientID)
	setString(EnvGraphClientSecret, &c.ClientSecret)
	setString(EnvGraphFromAddress, &c.FromAddress)
	setString(EnvGraphCarbonCopy, &c.CarbonCopy)
	setString(EnvGraphTimeout, &c.Timeout)
}

func (c *GraphConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
