package mailer

import (
	"context"
	"log/slog"
)

// DryRun satisfies Mailer by logging the message instead of touching
// Graph. It is the default mode; drafts only reach a real mailbox when
// the run is explicitly flagged live.
type DryRun struct {
	logger *slog.Logger
}

// NewDryRun creates a logging-only mailer.
func NewDryRun(logger *slog.Logger) *DryRun {
	return &DryRun{logger: logger.With("system", "mailer", "mode", "dry-run")}
}

// CreateDraft logs what would have been drafted.
func (d *DryRun) CreateDraft(ctx context.Context, msg Message) (*Receipt, error) {
	d.logger.InfoContext(
		ctx, "draft suppressed",
		"to", msg.To,
		"cc", msg.CC,
		"subject", msg.Subject,
		"body_bytes", len(msg.Body),
	)
	return &Receipt{DryRun: true}, nil
}
