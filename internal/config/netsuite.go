package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apachepressure/chaser/internal/netsuite"
)

const (
	EnvNSAccountID      = "CHASER_NS_ACCOUNT_ID"
	EnvNSBaseURL        = "CHASER_NS_REST_BASE_URL"
	EnvNSConsumerKey    = "CHASER_NS_CONSUMER_KEY"
	EnvNSConsumerSecret = "CHASER_NS_CONSUMER_SECRET"
	EnvNSTokenID        = "CHASER_NS_TOKEN_ID"
	EnvNSTokenSecret    = "CHASER_NS_TOKEN_SECRET"
	EnvNSStampRestlet   = "CHASER_NS_STAMP_RESTLET_URL"
	EnvNSPageLimit      = "CHASER_NS_PAGE_LIMIT"
	EnvNSTimeout        = "CHASER_NS_TIMEOUT"
)

// NetSuiteConfig holds ERP connection settings. Credential presence is
// checked by the client at construction, not here, so that runs which
// never touch the ERP (history, report-only) work without credentials.
type NetSuiteConfig struct {
	AccountID       string `toml:"account_id"`
	BaseURL         string `toml:"rest_base_url"`
	ConsumerKey     string `toml:"consumer_key"`
	ConsumerSecret  string `toml:"consumer_secret"`
	TokenID         string `toml:"token_id"`
	TokenSecret     string `toml:"token_secret"`
	StampRestletURL string `toml:"stamp_restlet_url"`
	PageLimit       int    `toml:"page_limit"`
	Timeout         string `toml:"timeout"`
}

// Client converts the section into the client's config struct.
func (c *NetSuiteConfig) Client() netsuite.Config {
	timeout, _ := time.ParseDuration(c.Timeout)
	return netsuite.Config{
		AccountID:       c.AccountID,
		BaseURL:         strings.TrimRight(c.BaseURL, "/"),
		ConsumerKey:     c.ConsumerKey,
		ConsumerSecret:  c.ConsumerSecret,
		TokenID:         c.TokenID,
		TokenSecret:     c.TokenSecret,
		StampRestletURL: c.StampRestletURL,
		PageLimit:       c.PageLimit,
		Timeout:         timeout,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NetSuiteConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *NetSuiteConfig) Merge(overlay *NetSuiteConfig) {
	if overlay.AccountID != "" {
		c.AccountID = overlay.AccountID
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.ConsumerKey != "" {
		c.ConsumerKey = overlay.ConsumerKey
	}
	if overlay.ConsumerSecret != "" {
		c.ConsumerSecret = overlay.ConsumerSecret
	}
	if overlay.TokenID != "" {
		c.TokenID = overlay.TokenID
	}
	if overlay.TokenSecret != "" {
		c.TokenSecret = overlay.TokenSecret
	}
	if overlay.StampRestletURL != "" {
		c.StampRestletURL = overlay.StampRestletURL
	}
	if overlay.PageLimit != 0 {
		c.PageLimit = overlay.PageLimit
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *NetSuiteConfig) loadDefaults() {
	if c.PageLimit == 0 {
		c.PageLimit = netsuite.DefaultPageLimit
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
}

func (c *NetSuiteConfig) loadEnv() {
	setString := func(envVar string, dst *string) {
		if v := os.Getenv(envVar); v != "" {
			*dst = v
		}
	}

	setString(EnvNSAccountID, &c.AccountID)
	setString(EnvNSBaseURL, &c.BaseURL)
	setString(EnvNSConsumerKey, &c.ConsumerKey)
	setString(EnvNSConsumerSecret, &c.ConsumerSecret)
	setString(EnvNSTokenID, &c.TokenID)
	setString(EnvNSTokenSecret, &c.TokenSecret)
	setString(EnvNSStampRestlet, &c.StampRestletURL)
	setString(EnvNSTimeout, &c.Timeout)

	if v := os.Getenv(EnvNSPageLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageLimit = n
		}
	}
}

func (c *NetSuiteConfig) validate() error {
	if c.PageLimit < 1 {
		return fmt.Errorf("invalid page_limit: %d", c.PageLimit)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
