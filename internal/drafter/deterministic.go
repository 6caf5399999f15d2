package drafter

import (
	"context"

	"github.com/apachepressure/chaser/internal/briefs"
)

// Deterministic renders drafts from the fixed template. It never fails,
// which makes it the universal fallback for the generative drafter.
type Deterministic struct {
	Signature briefs.Signature
}

// NewDeterministic creates a template-backed drafter.
func NewDeterministic(sig briefs.Signature) *Deterministic {
	return &Deterministic{Signature: sig}
}

// Draft composes the subject and body from the canonical template.
func (d *Deterministic) Draft(_ context.Context, b briefs.Brief) (Draft, error) {
	subject, body := briefs.Compose(b, d.Signature)
	return Draft{Subject: subject, Body: body}, nil
}
