// Package drafter turns vendor briefs into outreach messages. Two
// implementations share the Drafter contract: a deterministic templater
// whose output is byte-stable, and a generative drafter that asks a
// language model to write the message and falls back to the templater
// whenever the model misbehaves.
package drafter

import (
	"context"

	"github.com/apachepressure/chaser/internal/briefs"
)

// Draft is a ready-to-send message for one vendor.
type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// Generated is true when a language model produced the content,
	// false when the deterministic template did.
	Generated bool `json:"generated"`
}

// Drafter composes a draft for a vendor brief.
type Drafter interface {
	Draft(ctx context.Context, b briefs.Brief) (Draft, error)
}
