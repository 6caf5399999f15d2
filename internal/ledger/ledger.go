// Package ledger persists run history in a local SQLite database. Every
// run records its configuration and analysis counts; every drafted email
// records where it went and what came back. The history is what makes
// the cadence auditable after the fact.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                     TEXT PRIMARY KEY,
    started_at             TIMESTAMP NOT NULL,
    finished_at            TIMESTAMP NOT NULL,
    as_of                  TEXT NOT NULL,
    mode                   TEXT NOT NULL,
    engine                 TEXT NOT NULL,
    po_count               INTEGER NOT NULL,
    line_count             INTEGER NOT NULL,
    normal_count           INTEGER NOT NULL,
    due_count              INTEGER NOT NULL,
    past_due_count         INTEGER NOT NULL,
    needs_buyer_data_count INTEGER NOT NULL,
    eligible_count         INTEGER NOT NULL,
    vendor_count           INTEGER NOT NULL,
    emails_drafted         INTEGER NOT NULL,
    emails_skipped         INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS emails (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL REFERENCES runs(id),
    vendor       TEXT NOT NULL,
    vendor_email TEXT NOT NULL,
    subject      TEXT NOT NULL,
    po_ids       TEXT NOT NULL,
    draft_id     TEXT NOT NULL DEFAULT '',
    web_link     TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL,
    generated    INTEGER NOT NULL DEFAULT 0,
    created_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_emails_run ON emails(run_id);
`

// Run is one recorded engine run.
type Run struct {
	ID                  string    `db:"id" json:"id"`
	StartedAt           time.Time `db:"started_at" json:"started_at"`
	FinishedAt          time.Time `db:"finished_at" json:"finished_at"`
	AsOf                string    `db:"as_of" json:"as_of"`
	Mode                string    `db:"mode" json:"mode"`
	Engine              string    `db:"engine" json:"engine"`
	POCount             int       `db:"po_count" json:"po_count"`
	LineCount           int       `db:"line_count" json:"line_count"`
	NormalCount         int       `db:"normal_count" json:"normal_count"`
	DueCount            int       `db:"due_count" json:"due_count"`
	PastDueCount        int       `db:"past_due_count" json:"past_due_count"`
	NeedsBuyerDataCount int       `db:"needs_buyer_data_count" json:"needs_buyer_data_count"`
	EligibleCount       int       `db:"eligible_count" json:"eligible_count"`
	VendorCount         int       `db:"vendor_count" json:"vendor_count"`
	EmailsDrafted       int       `db:"emails_drafted" json:"emails_drafted"`
	EmailsSkipped       int       `db:"emails_skipped" json:"emails_skipped"`
}

// Email is one recorded draft attempt.
type Email struct {
	ID          int64     `db:"id" json:"id"`
	RunID       string    `db:"run_id" json:"run_id"`
	Vendor      string    `db:"vendor" json:"vendor"`
	VendorEmail string    `db:"vendor_email" json:"vendor_email"`
	Subject     string    `db:"subject" json:"subject"`
	POIDs       string    `db:"po_ids" json:"po_ids"` // comma-separated
	DraftID     string    `db:"draft_id" json:"draft_id"`
	WebLink     string    `db:"web_link" json:"web_link"`
	Status      string    `db:"status" json:"status"`
	Generated   bool      `db:"generated" json:"generated"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Email statuses.
const (
	StatusDrafted   = "drafted"
	StatusDryRun    = "dry_run"
	StatusFailed    = "failed"
	StatusThrottled = "throttled"
	StatusSkipped   = "skipped"
)

// Ledger wraps the SQLite run history.
type Ledger struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open creates or opens the ledger database at path and applies the
// schema. Use ":memory:" for an ephemeral ledger.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	// modernc's sqlite driver serializes writes through one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Ledger{db: db, logger: logger.With("system", "ledger")}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun inserts one completed run.
func (l *Ledger) RecordRun(ctx context.Context, run Run) error {
	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO runs (
			id, started_at, finished_at, as_of, mode, engine,
			po_count, line_count, normal_count, due_count, past_due_count,
			needs_buyer_data_count, eligible_count, vendor_count,
			emails_drafted, emails_skipped
		) VALUES (
			:id, :started_at, :finished_at, :as_of, :mode, :engine,
			:po_count, :line_count, :normal_count, :due_count, :past_due_count,
			:needs_buyer_data_count, :eligible_count, :vendor_count,
			:emails_drafted, :emails_skipped
		)`, run)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	l.logger.DebugContext(ctx, "run recorded", "run_id", run.ID)
	return nil
}

// RecordEmail inserts one draft attempt.
func (l *Ledger) RecordEmail(ctx context.Context, email Email) error {
	if email.CreatedAt.IsZero() {
		email.CreatedAt = time.Now().UTC()
	}

	_, err := l.db.NamedExecContext(ctx, `
		INSERT INTO emails (
			run_id, vendor, vendor_email, subject, po_ids,
			draft_id, web_link, status, generated, created_at
		) VALUES (
			:run_id, :vendor, :vendor_email, :subject, :po_ids,
			:draft_id, :web_link, :status, :generated, :created_at
		)`, email)
	if err != nil {
		return fmt.Errorf("record email: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	var runs []Run
	err := l.db.SelectContext(ctx, &runs, `
		SELECT * FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}

// Emails returns the draft attempts recorded for one run.
func (l *Ledger) Emails(ctx context.Context, runID string) ([]Email, error) {
	var emails []Email
	err := l.db.SelectContext(ctx, &emails, `
		SELECT * FROM emails WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("emails for run %s: %w", runID, err)
	}
	return emails, nil
}
