// Command chaser runs the PO vendor inquiry engine: pull open purchase
// order lines from NetSuite, classify them by due-date urgency, group
// inquiry-worthy POs into per-vendor briefs, draft outreach emails into
// the purchasing mailbox, and render run artifacts.
//
// Runs are dry by default; nothing reaches a real mailbox without -live.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/briefs"
	"github.com/apachepressure/chaser/internal/config"
	"github.com/apachepressure/chaser/internal/drafter"
	"github.com/apachepressure/chaser/internal/infrastructure"
	"github.com/apachepressure/chaser/internal/mailer"
	"github.com/apachepressure/chaser/internal/netsuite"
	"github.com/apachepressure/chaser/internal/workflow"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns the lifecycle so cleanup hooks (the ledger handle among them)
// execute on every exit path, failed runs included.
func run() error {
	var (
		live           = flag.Bool("live", false, "Create real drafts in the mailbox (default is dry-run)")
		agent          = flag.Bool("agent", false, "Draft with the language model instead of the template")
		maxEmails      = flag.Int("max-emails", 0, "Cap drafts per run (0 = no cap)")
		sleep          = flag.Duration("sleep", -1, "Pause between draft calls (overrides config)")
		testVendor     = flag.String("test-vendor", "", "Restrict the pull to one vendor email")
		daysOld        = flag.Int("days-old", 0, "Only consider POs at least this many days old (overrides config)")
		pageLimit      = flag.Int("page-limit", 0, "SuiteQL page size (overrides config)")
		stamp          = flag.Bool("stamp", false, "Stamp inquiry dates onto PO headers after live drafts")
		asOf           = flag.String("as-of", "", "Analysis date as YYYY-MM-DD (default today)")
		out            = flag.String("out", "", "HTML report path (default timestamped under the report dir)")
		history        = flag.Int("history", 0, "Print the N most recent runs and exit")
		respectCadence = flag.Bool("respect-cadence", true, "Throttle vendors re-inquired inside the cadence window")
		noProgress     = flag.Bool("no-progress", false, "Disable the dispatch progress bar")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return fmt.Errorf("infrastructure init failed: %w", err)
	}
	defer infra.Lifecycle.Close(30 * time.Second)

	if *history > 0 {
		return printHistory(infra, *history)
	}

	asOfDay, err := resolveAsOf(*asOf)
	if err != nil {
		return err
	}

	if *daysOld > 0 {
		cfg.Run.DaysOld = *daysOld
	}
	if *pageLimit > 0 {
		cfg.NetSuite.PageLimit = *pageLimit
	}

	source, err := netsuite.New(cfg.NetSuite.Client(), infra.Logger)
	if err != nil {
		return fmt.Errorf("netsuite init failed: %w", err)
	}

	post, err := mailerFor(*live, cfg, infra)
	if err != nil {
		return fmt.Errorf("graph init failed: %w", err)
	}

	sig := briefs.Signature{Name: cfg.Run.SignatureName, Company: cfg.Run.SignatureCompany}

	var d drafter.Drafter = drafter.NewDeterministic(sig)
	engine := "deterministic"
	if *agent {
		d = drafter.NewGenerative(cfg.Agent, sig, infra.Logger)
		engine = "generative"
	}

	pause := cfg.Run.SleepDuration()
	if *sleep >= 0 {
		pause = *sleep
	}

	rt := &workflow.Runtime{
		Source:  source,
		Stamper: source,
		Mailer:  post,
		Drafter: d,
		Ledger:  infra.Ledger,
		Logger:  infra.Logger,
		Options: workflow.Options{
			RunID:          uuid.NewString(),
			AsOf:           asOfDay,
			HorizonDays:    cfg.Run.HorizonDays,
			ReinquiryDays:  cfg.Run.ReinquiryDays,
			DaysOld:        cfg.Run.DaysOld,
			VendorEmail:    *testVendor,
			DryRun:         !*live,
			Engine:         engine,
			MaxEmails:      resolveMax(*maxEmails, cfg.Run.MaxEmails),
			Sleep:          pause,
			RespectCadence: *respectCadence,
			Stamp:          *stamp,
			Progress:       !*noProgress,
			Limits: briefs.Limits{
				MaxVendors:      cfg.Run.MaxVendors,
				MaxPOsPerVendor: cfg.Run.MaxPOsPerVendor,
				MaxLinesPerPO:   cfg.Run.MaxLinesPerPO,
			},
			Signature:    sig,
			ReportPath:   *out,
			ReportDir:    cfg.Report.HTMLDir,
			WorkbookPath: cfg.Report.WorkbookPath,
		},
	}

	infra.Logger.Info(
		"chaser starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"run_id", rt.Options.RunID,
		"as_of", asOfDay.Format("2006-01-02"),
		"mode", mode(*live),
		"engine", engine,
	)

	result, err := workflow.Execute(infra.Lifecycle.Context(), rt)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printSummary(result, *live)
	return nil
}

func mode(live bool) string {
	if live {
		return "live"
	}
	return "dry-run"
}

func mailerFor(live bool, cfg *config.Config, infra *infrastructure.Infrastructure) (mailer.Mailer, error) {
	if !live {
		return mailer.NewDryRun(infra.Logger), nil
	}
	return mailer.NewGraph(cfg.Graph.Mailer(), infra.Logger)
}

func resolveAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return analysis.Day(time.Now().UTC()), nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -as-of %q: %w", raw, err)
	}
	return t, nil
}

// resolveMax lets the flag win over config; either zero means no cap.
func resolveMax(flagVal, cfgVal int) int {
	if flagVal > 0 {
		return flagVal
	}
	return cfgVal
}

func printSummary(result *workflow.Result, live bool) {
	s := result.AnalysisStats
	fmt.Printf("\nRun %s (%s)\n", result.RunID, mode(live))
	fmt.Printf("  as of:            %s\n", s.AsOf)
	fmt.Printf("  purchase orders:  %d (%d lines)\n", s.POCount, s.LineCount)
	fmt.Printf("  normal:           %d\n", s.NormalCount)
	fmt.Printf("  due:              %d\n", s.DueCount)
	fmt.Printf("  past due:         %d\n", s.PastDueCount)
	fmt.Printf("  missing due data: %d\n", s.NeedsBuyerDataCount)
	fmt.Printf("  eligible POs:     %d\n", s.EligibleInquiryCount)
	fmt.Printf("  vendors briefed:  %d\n", result.BriefStats.VendorCount)
	fmt.Printf("  drafts:           %d created, %d skipped\n", result.Dispatch.Drafted, result.Dispatch.Skipped)
	if len(result.Dispatch.StampedPOIDs) > 0 {
		fmt.Printf("  stamped POs:      %d\n", len(result.Dispatch.StampedPOIDs))
	}
	fmt.Printf("  report:           %s\n", result.ReportPath)
	if result.WorkbookPath != "" {
		fmt.Printf("  buyer workbook:   %s\n", result.WorkbookPath)
	}
}

func printHistory(infra *infrastructure.Infrastructure, limit int) error {
	runs, err := infra.Ledger.RecentRuns(infra.Lifecycle.Context(), limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-8s  %-13s  %5s  %5s  %8s  %7s\n",
		"RUN", "STARTED", "MODE", "ENGINE", "POS", "DUE", "PAST DUE", "DRAFTS")
	for _, r := range runs {
		fmt.Fprintf(os.Stdout, "%-36s  %-16s  %-8s  %-13s  %5d  %5d  %8d  %7d\n",
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Mode,
			r.Engine,
			r.POCount,
			r.DueCount,
			r.PastDueCount,
			r.EmailsDrafted,
		)
	}
	return nil
}
