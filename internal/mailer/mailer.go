// Package mailer creates outbound email drafts through Microsoft Graph.
// Messages land in the sending account's Drafts folder so a buyer can
// review them before anything reaches a vendor. A dry-run implementation
// substitutes logging for the Graph call.
package mailer

import (
	"context"
	"errors"
)

// Configuration errors.
var (
	ErrMissingTenant = errors.New("graph tenant id is required")
	ErrMissingClient = errors.New("graph client credentials are incomplete")
	ErrMissingFrom   = errors.New("graph sending address is required")
)

// ErrDraftFailed is returned when Graph rejects a draft.
var ErrDraftFailed = errors.New("draft creation failed")

// Message is one email to be drafted.
type Message struct {
	To      string `json:"to"`
	CC      string `json:"cc,omitempty"` // semicolon-separated
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Receipt identifies a created draft. DryRun receipts carry no id.
type Receipt struct {
	DraftID string `json:"draft_id,omitempty"`
	WebLink string `json:"web_link,omitempty"`
	DryRun  bool   `json:"dry_run"`
}

// Mailer places a message where a human can review it.
type Mailer interface {
	CreateDraft(ctx context.Context, msg Message) (*Receipt, error)
}
