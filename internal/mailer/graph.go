package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	defaultGraphBaseURL = "https://graph.microsoft.com"
	graphScope          = "https://graph.microsoft.com/.default"
)

// Config carries the Azure app registration used to reach Graph.
type Config struct {
	TenantID     string
	ClientID     string
	ClientSecret string

	// FromAddress is the mailbox drafts are created in. The app
	// registration needs Mail.ReadWrite for this user.
	FromAddress string

	// CarbonCopy, when set, is applied to every message that does not
	// carry its own CC list. Semicolon-separated.
	CarbonCopy string

	// BaseURL overrides the Graph endpoint. Empty means production.
	BaseURL string

	Timeout time.Duration
}

func (c Config) validate() error {
	if c.TenantID == "" {
		return ErrMissingTenant
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingClient
	}
	if c.FromAddress == "" {
		return ErrMissingFrom
	}
	return nil
}

// Graph drafts messages through the Microsoft Graph API using the
// client-credentials flow.
type Graph struct {
	cfg    Config
	cred   azcore.TokenCredential
	http   *http.Client
	logger *slog.Logger
}

// NewGraph validates the configuration and acquires a client-secret
// credential. Tokens are requested lazily per draft; azidentity caches
// and refreshes them internally.
func NewGraph(cfg Config, logger *slog.Logger) (*Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("graph config: %w", err)
	}

	cred, err := azidentity.NewClientSecretCredential(cfg.TenantID, cfg.ClientID, cfg.ClientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("graph credential: %w", err)
	}

	return newGraph(cfg, cred, logger), nil
}

func newGraph(cfg Config, cred azcore.TokenCredential, logger *slog.Logger) *Graph {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGraphBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Graph{
		cfg:    cfg,
		cred:   cred,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("system", "mailer"),
	}
}

type graphRecipient struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
}

type graphDraft struct {
	Subject string `json:"subject"`
	Body    struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
	CCRecipients []graphRecipient `json:"ccRecipients,omitempty"`
}

type graphDraftResponse struct {
	ID      string `json:"id"`
	WebLink string `json:"webLink"`
}

// CreateDraft places msg in the sending account's Drafts folder and
// returns the draft's id and web link.
func (g *Graph) CreateDraft(ctx context.Context, msg Message) (*Receipt, error) {
	token, err := g.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{graphScope}})
	if err != nil {
		return nil, fmt.Errorf("%w: acquire token: %w", ErrDraftFailed, err)
	}

	payload, err := json.Marshal(buildDraft(msg, g.cfg.CarbonCopy))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal draft: %w", ErrDraftFailed, err)
	}

	url := fmt.Sprintf("%s/v1.0/users/%s/messages", g.cfg.BaseURL, g.cfg.FromAddress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrDraftFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDraftFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: graph HTTP %d: %s", ErrDraftFailed, resp.StatusCode, body)
	}

	var decoded graphDraftResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrDraftFailed, err)
	}

	g.logger.InfoContext(
		ctx, "draft created",
		"to", msg.To,
		"subject", msg.Subject,
		"draft_id", decoded.ID,
	)

	return &Receipt{DraftID: decoded.ID, WebLink: decoded.WebLink}, nil
}

func buildDraft(msg Message, defaultCC string) graphDraft {
	var draft graphDraft
	draft.Subject = msg.Subject
	draft.Body.ContentType = "Text"
	draft.Body.Content = msg.Body
	draft.ToRecipients = recipients(msg.To)

	cc := msg.CC
	if cc == "" {
		cc = defaultCC
	}
	draft.CCRecipients = recipients(cc)

	return draft
}

// recipients splits a semicolon-separated address list, dropping blanks.
func recipients(list string) []graphRecipient {
	var out []graphRecipient
	for _, addr := range strings.Split(list, ";") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		var r graphRecipient
		r.EmailAddress.Address = addr
		out = append(out, r)
	}
	return out
}
