package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/ledger"
	"github.com/apachepressure/chaser/internal/report"
)

// ReportNode renders the HTML report and the missing-due-dates workbook,
// then records the run in the ledger. It tolerates an absent dispatch
// result: runs with no vendor briefs skip dispatch entirely.
func ReportNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		an, err := extractAnalysis(s)
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}
		briefResult, err := extractBriefs(s)
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}

		dispatchResult, err := extractDispatch(s)
		if err != nil {
			dispatchResult = DispatchResult{}
		}

		now := time.Now()

		htmlPath := rt.Options.ReportPath
		if htmlPath == "" {
			dir := rt.Options.ReportDir
			if dir == "" {
				dir = "logs"
			}
			htmlPath = filepath.Join(dir, fmt.Sprintf("inquiry_report_%s.html", now.Format("20060102_150405")))
		}

		written, err := report.WriteHTML(htmlPath, report.Data{
			GeneratedAt: now,
			DryRun:      rt.Options.DryRun,
			Engine:      rt.Options.Engine,
			HorizonDays: rt.Options.HorizonDays,
			Stats:       an.Stats,
			Emails:      reportEmails(dispatchResult),
			Settings:    runSettings(rt),
		})
		if err != nil {
			return s, fmt.Errorf("report: %w", err)
		}

		workbookPath := ""
		if rt.Options.WorkbookPath != "" && an.Stats.NeedsBuyerDataCount > 0 {
			rows, err := report.WriteBuyerWorkbook(rt.Options.WorkbookPath, an.PurchaseOrders)
			if err != nil {
				return s, fmt.Errorf("report: %w", err)
			}
			workbookPath = rt.Options.WorkbookPath
			rt.Logger.InfoContext(ctx, "buyer workbook written", "path", workbookPath, "rows", rows)
		}

		recordRun(ctx, rt, an.Stats, briefResult.Stats.VendorCount, dispatchResult)

		rt.Logger.InfoContext(ctx, "report node complete", "html", written)

		return s.Set(KeyReportPath, written).Set(KeyWorkbookPath, workbookPath), nil
	})
}

func reportEmails(d DispatchResult) []report.Email {
	emails := make([]report.Email, 0, len(d.Outcomes))
	for _, o := range d.Outcomes {
		e := report.Email{
			Vendor:      o.Vendor,
			VendorEmail: o.VendorEmail,
			Subject:     o.Subject,
			Body:        o.Body,
			Status:      o.Status,
		}
		for _, po := range o.POs {
			e.POs = append(e.POs, report.EmailPO{PONumber: po.PONumber, State: po.State})
		}
		emails = append(emails, e)
	}
	return emails
}

func runSettings(rt *Runtime) []report.Setting {
	o := rt.Options
	return []report.Setting{
		{Key: "run_id", Value: o.RunID},
		{Key: "as_of", Value: o.AsOf.Format("2006-01-02")},
		{Key: "dry_run", Value: strconv.FormatBool(o.DryRun)},
		{Key: "engine", Value: o.Engine},
		{Key: "horizon_days", Value: strconv.Itoa(o.HorizonDays)},
		{Key: "reinquiry_days", Value: strconv.Itoa(o.ReinquiryDays)},
		{Key: "days_old", Value: strconv.Itoa(o.DaysOld)},
		{Key: "max_emails", Value: strconv.Itoa(o.MaxEmails)},
		{Key: "respect_cadence", Value: strconv.FormatBool(o.RespectCadence)},
		{Key: "stamp", Value: strconv.FormatBool(o.Stamp)},
		{Key: "test_vendor", Value: o.VendorEmail},
	}
}

func recordRun(ctx context.Context, rt *Runtime, stats analysis.Stats, vendorCount int, d DispatchResult) {
	if rt.Ledger == nil {
		return
	}

	err := rt.Ledger.RecordRun(ctx, ledger.Run{
		ID:                  rt.Options.RunID,
		StartedAt:           rt.startedAt,
		FinishedAt:          time.Now().UTC(),
		AsOf:                stats.AsOf,
		Mode:                runMode(rt.Options.DryRun),
		Engine:              rt.Options.Engine,
		POCount:             stats.POCount,
		LineCount:           stats.LineCount,
		NormalCount:         stats.NormalCount,
		DueCount:            stats.DueCount,
		PastDueCount:        stats.PastDueCount,
		NeedsBuyerDataCount: stats.NeedsBuyerDataCount,
		EligibleCount:       stats.EligibleInquiryCount,
		VendorCount:         vendorCount,
		EmailsDrafted:       d.Drafted,
		EmailsSkipped:       d.Skipped,
	})
	if err != nil {
		rt.Logger.WarnContext(ctx, "run record failed", "run_id", rt.Options.RunID, "error", err)
	}
}

func runMode(dryRun bool) string {
	if dryRun {
		return "dry-run"
	}
	return "live"
}
