package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/analysis"
)

// AnalyzeNode classifies every gathered PO and stores the analysis
// result in state.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		fetch, err := extractFetch(s)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		result := analysis.Analyze(fetch.PurchaseOrders, analysis.Options{
			AsOf:          rt.Options.AsOf,
			HorizonDays:   rt.Options.HorizonDays,
			ReinquiryDays: rt.Options.ReinquiryDays,
		})

		rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"po_count", result.Stats.POCount,
			"due", result.Stats.DueCount,
			"past_due", result.Stats.PastDueCount,
			"needs_buyer_data", result.Stats.NeedsBuyerDataCount,
			"eligible", result.Stats.EligibleInquiryCount,
		)

		return s.Set(KeyAnalysis, *result), nil
	})
}
