// Package workflow orchestrates one engine run as a state graph:
// gather open PO lines, analyze them, aggregate vendor briefs, dispatch
// drafts, and render the run report. Nodes communicate through typed
// state keys; collaborators are narrow interfaces so tests can run the
// whole graph against fakes.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/apachepressure/chaser/internal/briefs"
	"github.com/apachepressure/chaser/internal/drafter"
	"github.com/apachepressure/chaser/internal/ledger"
	"github.com/apachepressure/chaser/internal/mailer"
	"github.com/apachepressure/chaser/internal/netsuite"
)

// ErrStateMissing indicates a node ran before its inputs were set.
var ErrStateMissing = errors.New("workflow state missing")

// Source pulls open purchase order lines from the ERP.
type Source interface {
	FetchOpenPOLines(ctx context.Context, opts netsuite.FetchOptions) (*netsuite.FetchResult, error)
}

// Stamper writes inquiry-sent dates back onto PO headers.
type Stamper interface {
	StampInquirySent(ctx context.Context, poIDs []string, sentDate time.Time) (*netsuite.StampResult, error)
}

// Recorder persists run history.
type Recorder interface {
	RecordRun(ctx context.Context, run ledger.Run) error
	RecordEmail(ctx context.Context, email ledger.Email) error
}

// Options carries the per-run settings resolved from config and flags.
type Options struct {
	RunID string
	AsOf  time.Time

	HorizonDays   int
	ReinquiryDays int
	DaysOld       int

	// VendorEmail narrows the pull to one vendor for targeted testing.
	VendorEmail string

	DryRun bool

	// Engine names the drafter in reports and history: "deterministic"
	// or "generative".
	Engine string

	// MaxEmails caps drafts per run. Zero means no cap.
	MaxEmails int

	// Sleep is the pause between consecutive draft creations.
	Sleep time.Duration

	// RespectCadence skips vendors whose every PO the cadence policy
	// throttled. Off, every eligible vendor is drafted regardless.
	RespectCadence bool

	// Stamp enables writing inquiry dates back to the ERP after a live
	// draft succeeds.
	Stamp bool

	// Progress draws a terminal progress bar during dispatch.
	Progress bool

	Limits    briefs.Limits
	Signature briefs.Signature

	// ReportPath overrides the timestamped default. Empty uses
	// <ReportDir>/inquiry_report_<timestamp>.html.
	ReportPath   string
	ReportDir    string
	WorkbookPath string
}

// Runtime bundles the dependencies that workflow nodes require. It is
// constructed by higher-level composition code from infrastructure
// systems; any nil collaborator disables the corresponding behavior.
type Runtime struct {
	Source  Source
	Stamper Stamper
	Mailer  mailer.Mailer
	Drafter drafter.Drafter
	Ledger  Recorder
	Logger  *slog.Logger
	Options Options

	startedAt time.Time
}
