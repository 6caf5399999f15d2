package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/briefs"
)

// BriefNode groups inquiry-recommended POs into per-vendor briefs and
// stores them in state.
func BriefNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		an, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("brief: %w", err)
		}

		result := briefs.Build(an.PurchaseOrders, rt.Options.Limits)

		rt.Logger.InfoContext(
			ctx, "brief node complete",
			"vendors", result.Stats.VendorCount,
			"pos", result.Stats.TotalPOs,
			"skipped_missing_email", result.Stats.SkippedMissingEmail,
			"capped_vendors", result.Stats.CappedVendors,
		)

		return s.Set(KeyBriefs, result), nil
	})
}

// hasBriefs gates the dispatch node: with no vendor briefs there is
// nothing to draft and the run goes straight to reporting.
func hasBriefs(s state.State) bool {
	result, err := extractBriefs(s)
	if err != nil {
		return false
	}
	return len(result.Briefs) > 0
}
