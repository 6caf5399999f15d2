package workflow

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/briefs"
	"github.com/apachepressure/chaser/internal/drafter"
	"github.com/apachepressure/chaser/internal/ledger"
	"github.com/apachepressure/chaser/internal/mailer"
)

// Outcome records what happened to one vendor brief during dispatch.
type Outcome struct {
	Vendor      string      `json:"vendor"`
	VendorEmail string      `json:"vendor_email"`
	Subject     string      `json:"subject"`
	Body        string      `json:"body"`
	Status      string      `json:"status"`
	DraftID     string      `json:"draft_id,omitempty"`
	WebLink     string      `json:"web_link,omitempty"`
	Generated   bool        `json:"generated"`
	POIDs       []string    `json:"po_ids"`
	POs         []briefs.PO `json:"pos"`
	Error       string      `json:"error,omitempty"`
}

// DispatchResult summarizes the dispatch node.
type DispatchResult struct {
	Outcomes []Outcome `json:"outcomes"`
	Drafted  int       `json:"drafted"`
	Skipped  int       `json:"skipped"`

	// StampedPOIDs lists PO headers stamped with the inquiry date.
	StampedPOIDs []string `json:"stamped_po_ids,omitempty"`
}

// DispatchNode drafts one email per vendor brief. Message composition
// runs concurrently (the generative drafter blocks on model calls);
// mailbox drafts are then created sequentially with a pause between
// calls to stay inside Graph's throttling budget. Throttled and
// over-cap briefs are recorded, never silently dropped.
func DispatchNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		briefResult, err := extractBriefs(s)
		if err != nil {
			return s, fmt.Errorf("dispatch: %w", err)
		}

		result, err := dispatch(ctx, rt, briefResult.Briefs)
		if err != nil {
			return s, fmt.Errorf("dispatch: %w", err)
		}

		rt.Logger.InfoContext(
			ctx, "dispatch node complete",
			"drafted", result.Drafted,
			"skipped", result.Skipped,
			"stamped", len(result.StampedPOIDs),
		)

		return s.Set(KeyDispatch, *result), nil
	})
}

func dispatch(ctx context.Context, rt *Runtime, all []briefs.Brief) (*DispatchResult, error) {
	result := &DispatchResult{}

	var targets []briefs.Brief
	for _, b := range all {
		switch {
		case rt.Options.RespectCadence && b.Suppressed():
			o := skippedOutcome(b, ledger.StatusThrottled)
			result.Outcomes = append(result.Outcomes, o)
			result.Skipped++
			recordOutcome(ctx, rt, o)
		case rt.Options.MaxEmails > 0 && len(targets) >= rt.Options.MaxEmails:
			o := skippedOutcome(b, ledger.StatusSkipped)
			result.Outcomes = append(result.Outcomes, o)
			result.Skipped++
			recordOutcome(ctx, rt, o)
		default:
			targets = append(targets, b)
		}
	}

	drafts, err := composeDrafts(ctx, rt, targets)
	if err != nil {
		return nil, err
	}

	bar := dispatchBar(rt, len(targets))

	for i, b := range targets {
		if i > 0 && rt.Options.Sleep > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(rt.Options.Sleep):
			}
		}

		outcome := createDraft(ctx, rt, b, drafts[i])
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Status == ledger.StatusFailed {
			result.Skipped++
		} else {
			result.Drafted++
		}

		recordOutcome(ctx, rt, outcome)

		if bar != nil {
			bar.Add(1)
		}
	}

	if err := stampOutcomes(ctx, rt, result); err != nil {
		return nil, err
	}

	return result, nil
}

// composeDrafts renders messages for every target concurrently. Order is
// preserved: drafts[i] belongs to targets[i].
func composeDrafts(ctx context.Context, rt *Runtime, targets []briefs.Brief) ([]drafter.Draft, error) {
	drafts := make([]drafter.Draft, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(targets)))

	for i := range targets {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			d, err := rt.Drafter.Draft(gctx, targets[i])
			if err != nil {
				return fmt.Errorf("draft for %s: %w", targets[i].VendorEmail, err)
			}
			drafts[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return drafts, nil
}

func createDraft(ctx context.Context, rt *Runtime, b briefs.Brief, d drafter.Draft) Outcome {
	outcome := Outcome{
		Vendor:      b.Vendor,
		VendorEmail: b.VendorEmail,
		Subject:     d.Subject,
		Body:        d.Body,
		Generated:   d.Generated,
		POIDs:       b.POIDs,
		POs:         b.POs,
	}

	receipt, err := rt.Mailer.CreateDraft(ctx, mailer.Message{
		To:      b.VendorEmail,
		Subject: d.Subject,
		Body:    d.Body,
	})
	switch {
	case err != nil:
		outcome.Status = ledger.StatusFailed
		outcome.Error = err.Error()
		rt.Logger.ErrorContext(
			ctx, "draft creation failed",
			"vendor", b.VendorEmail,
			"error", err,
		)
	case receipt.DryRun:
		outcome.Status = ledger.StatusDryRun
	default:
		outcome.Status = ledger.StatusDrafted
		outcome.DraftID = receipt.DraftID
		outcome.WebLink = receipt.WebLink
	}

	return outcome
}

// stampOutcomes writes the inquiry date onto PO headers for briefs that
// produced a real draft. Dry runs never stamp: the vendor was not
// contacted, so the cadence clock must not advance.
func stampOutcomes(ctx context.Context, rt *Runtime, result *DispatchResult) error {
	if !rt.Options.Stamp || rt.Options.DryRun || rt.Stamper == nil {
		return nil
	}

	var poIDs []string
	for _, o := range result.Outcomes {
		if o.Status == ledger.StatusDrafted {
			poIDs = append(poIDs, o.POIDs...)
		}
	}
	if len(poIDs) == 0 {
		return nil
	}

	stamped, err := rt.Stamper.StampInquirySent(ctx, poIDs, rt.Options.AsOf)
	if err != nil {
		return fmt.Errorf("stamp: %w", err)
	}

	result.StampedPOIDs = stamped.Updated
	return nil
}

func recordOutcome(ctx context.Context, rt *Runtime, o Outcome) {
	if rt.Ledger == nil {
		return
	}

	err := rt.Ledger.RecordEmail(ctx, ledger.Email{
		RunID:       rt.Options.RunID,
		Vendor:      o.Vendor,
		VendorEmail: o.VendorEmail,
		Subject:     o.Subject,
		POIDs:       strings.Join(o.POIDs, ","),
		DraftID:     o.DraftID,
		WebLink:     o.WebLink,
		Status:      o.Status,
		Generated:   o.Generated,
	})
	if err != nil {
		rt.Logger.WarnContext(ctx, "email record failed", "vendor", o.VendorEmail, "error", err)
	}
}

func skippedOutcome(b briefs.Brief, status string) Outcome {
	return Outcome{
		Vendor:      b.Vendor,
		VendorEmail: b.VendorEmail,
		Status:      status,
		POIDs:       b.POIDs,
		POs:         b.POs,
	}
}

func dispatchBar(rt *Runtime, total int) *progressbar.ProgressBar {
	if !rt.Options.Progress || total == 0 {
		return nil
	}

	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("drafting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func workerCount(targets int) int {
	limit := runtime.NumCPU()
	if limit > 4 {
		limit = 4
	}
	if targets < limit {
		return max(targets, 1)
	}
	return limit
}
