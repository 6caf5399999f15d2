package drafter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/apachepressure/chaser/internal/briefs"
)

// Generative drafts messages with a language model. Agents are created
// per call so concurrent drafts never share transport state. Any failure
// along the way (agent creation, the chat call, response parsing) degrades
// to the deterministic template rather than blocking the run.
type Generative struct {
	cfg      gaconfig.AgentConfig
	fallback *Deterministic
	logger   *slog.Logger
}

// NewGenerative creates a model-backed drafter with a template fallback.
func NewGenerative(cfg gaconfig.AgentConfig, sig briefs.Signature, logger *slog.Logger) *Generative {
	return &Generative{
		cfg:      cfg,
		fallback: NewDeterministic(sig),
		logger:   logger.With("system", "drafter"),
	}
}

// Draft asks the model for a subject and body. The returned Draft reports
// via Generated whether the model's content was used.
func (g *Generative) Draft(ctx context.Context, b briefs.Brief) (Draft, error) {
	draft, err := g.generate(ctx, b)
	if err != nil {
		g.logger.WarnContext(
			ctx, "generative draft failed, using template",
			"vendor", b.Vendor,
			"error", err,
		)
		return g.fallback.Draft(ctx, b)
	}
	return draft, nil
}

func (g *Generative) generate(ctx context.Context, b briefs.Brief) (Draft, error) {
	prompt, err := buildPrompt(b, g.fallback.Signature)
	if err != nil {
		return Draft{}, err
	}

	a, err := agent.New(&g.cfg)
	if err != nil {
		return Draft{}, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, prompt)
	if err != nil {
		return Draft{}, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := parseDraft(resp.Text())
	if err != nil {
		return Draft{}, err
	}

	return Draft{Subject: parsed.Subject, Body: parsed.Body, Generated: true}, nil
}
