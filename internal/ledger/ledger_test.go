package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	l, err := Open(":memory:", logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func testRun(started time.Time) Run {
	return Run{
		ID:         uuid.NewString(),
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		AsOf:       "2025-06-01",
		Mode:       "dry-run",
		Engine:     "deterministic",
		POCount:    12,
		LineCount:  40,
		DueCount:   3,
	}
}

func TestRunRoundTrip(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	first := testRun(base)
	second := testRun(base.Add(time.Hour))

	for _, run := range []Run{first, second} {
		if err := l.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := l.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2", len(runs))
	}
	if runs[0].ID != second.ID {
		t.Errorf("first result = %s, want newest run %s", runs[0].ID, second.ID)
	}
	if runs[1].POCount != 12 || runs[1].DueCount != 3 {
		t.Errorf("counts = %+v", runs[1])
	}
	if !runs[0].StartedAt.Equal(second.StartedAt) {
		t.Errorf("started_at = %v, want %v", runs[0].StartedAt, second.StartedAt)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := range 5 {
		if err := l.RecordRun(ctx, testRun(base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := l.RecentRuns(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("run count = %d, want 3", len(runs))
	}
}

func TestEmailRoundTrip(t *testing.T) {
	l := testLedger(t)
	ctx := context.Background()

	run := testRun(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	if err := l.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	email := Email{
		RunID:       run.ID,
		Vendor:      "Acme Corp",
		VendorEmail: "orders@acme.test",
		Subject:     "PO Status Confirmation - 1 Due Soon",
		POIDs:       "628955,628956",
		DraftID:     "draft-1",
		Status:      StatusDrafted,
		Generated:   true,
	}
	if err := l.RecordEmail(ctx, email); err != nil {
		t.Fatalf("RecordEmail: %v", err)
	}
	if err := l.RecordEmail(ctx, Email{RunID: run.ID, Vendor: "Globex", VendorEmail: "g@globex.test", Subject: "s", POIDs: "1", Status: StatusDryRun}); err != nil {
		t.Fatalf("RecordEmail: %v", err)
	}

	emails, err := l.Emails(ctx, run.ID)
	if err != nil {
		t.Fatalf("Emails: %v", err)
	}

	if len(emails) != 2 {
		t.Fatalf("email count = %d, want 2", len(emails))
	}
	if emails[0].Vendor != "Acme Corp" || !emails[0].Generated {
		t.Errorf("first email = %+v", emails[0])
	}
	if emails[0].CreatedAt.IsZero() {
		t.Error("created_at should default when unset")
	}
	if emails[1].Status != StatusDryRun {
		t.Errorf("second status = %s", emails[1].Status)
	}
}
