package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/netsuite"
)

// GatherNode pulls open PO lines from the source system and stores the
// grouped purchase orders in state.
func GatherNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		result, err := rt.Source.FetchOpenPOLines(ctx, netsuite.FetchOptions{
			DaysOld:     rt.Options.DaysOld,
			VendorEmail: rt.Options.VendorEmail,
		})
		if err != nil {
			return s, fmt.Errorf("gather: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "gather node complete",
			"purchase_orders", len(result.PurchaseOrders),
			"rows", result.Stats.Rows,
			"pages", result.Stats.Pages,
		)

		return s.Set(KeyFetch, *result), nil
	})
}
