// Package netsuite is the NetSuite integration: a SuiteQL client that
// pages open purchase order lines out of the ERP, the row-to-PO transform,
// and a RESTlet caller that stamps the last-inquiry date back onto PO
// headers. Requests are signed with OAuth 1.0a token-based authentication
// using HMAC-SHA256, which is what NetSuite's REST surface requires.
package netsuite

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

// Configuration errors.
var (
	ErrMissingAccount     = errors.New("netsuite account id is required")
	ErrMissingBaseURL     = errors.New("netsuite rest base url is required")
	ErrMissingCredentials = errors.New("netsuite token credentials are incomplete")
)

// Request errors.
var (
	ErrRequestFailed = errors.New("netsuite request failed")
	ErrDecodeFailed  = errors.New("failed to decode netsuite response")
)

// Config carries the connection settings for one NetSuite account.
type Config struct {
	AccountID       string
	BaseURL         string
	ConsumerKey     string
	ConsumerSecret  string
	TokenID         string
	TokenSecret     string
	StampRestletURL string
	PageLimit       int
	Timeout         time.Duration
}

func (c Config) validate() error {
	if c.AccountID == "" {
		return ErrMissingAccount
	}
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.ConsumerKey == "" || c.ConsumerSecret == "" || c.TokenID == "" || c.TokenSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Client talks to NetSuite over its REST surfaces. It is safe for
// concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// New validates the configuration and builds a signed HTTP client. The
// account id doubles as the OAuth realm.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("netsuite config: %w", err)
	}

	if cfg.PageLimit <= 0 {
		cfg.PageLimit = DefaultPageLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	oaCfg := oauth1.Config{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		Realm:          cfg.AccountID,
		Signer:         &oauth1.HMAC256Signer{ConsumerSecret: cfg.ConsumerSecret},
	}
	token := oauth1.NewToken(cfg.TokenID, cfg.TokenSecret)

	httpClient := oaCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: logger.With("system", "netsuite"),
	}, nil
}
