package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/ledger"
)

func testData() Data {
	return Data{
		GeneratedAt: time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC),
		DryRun:      true,
		Engine:      "deterministic",
		HorizonDays: 14,
		Stats: analysis.Stats{
			AsOf:                 "2025-06-01",
			POCount:              12,
			LineCount:            40,
			NormalCount:          5,
			DueCount:             4,
			PastDueCount:         3,
			EligibleInquiryCount: 7,
		},
		Emails: []Email{
			{
				Vendor:      "Acme Corp",
				VendorEmail: "orders@acme.test",
				Subject:     "PO Status Update Requested - 1 Past Due",
				Body:        "Hello Acme Corp,\n<not markup>",
				Status:      ledger.StatusDryRun,
				POs: []EmailPO{
					{PONumber: "PO100", State: analysis.StatePastDue},
					{PONumber: "PO101", State: analysis.StateDue},
				},
			},
		},
		Settings: []Setting{
			{Key: "dry_run", Value: "true"},
			{Key: "max_emails", Value: "10"},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testData()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := buf.String()

	t.Run("header", func(t *testing.T) {
		for _, want := range []string{
			"Generated: 2025-06-01 08:30:00 | Mode: DRY-RUN | Engine: deterministic",
			"PO Vendor Inquiry Report",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("report missing %q", want)
			}
		}
	})

	t.Run("stats and summary", func(t *testing.T) {
		for _, want := range []string{
			`<div class="value">12</div>`,
			"Due (within 14 days)",
			"Eligible for Inquiry",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("report missing %q", want)
			}
		}
	})

	t.Run("email card", func(t *testing.T) {
		for _, want := range []string{
			"1. Acme Corp &lt;orders@acme.test&gt;",
			"Subject: PO Status Update Requested - 1 Past Due",
			`<span class="po-item past-due">PO100 (Past Due)</span>`,
			`<span class="po-item due">PO101 (Due)</span>`,
			`class="status-badge status-dry-run"`,
		} {
			if !strings.Contains(html, want) {
				t.Errorf("report missing %q", want)
			}
		}
	})

	t.Run("body escaped", func(t *testing.T) {
		if strings.Contains(html, "<not markup>") {
			t.Error("email body was not escaped")
		}
		if !strings.Contains(html, "&lt;not markup&gt;") {
			t.Error("escaped body text missing")
		}
	})

	t.Run("run configuration", func(t *testing.T) {
		if !strings.Contains(html, "<tr><td>max_emails</td><td>10</td></tr>") {
			t.Error("settings table missing max_emails row")
		}
	})
}

func TestWriteHTMLDefaultPath(t *testing.T) {
	dir := t.TempDir()
	d := testData()

	path, err := WriteHTML(filepath.Join(dir, "report.html"), d)
	if err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if filepath.Base(path) != "report.html" {
		t.Errorf("path = %s", path)
	}
}

func TestWriteBuyerWorkbook(t *testing.T) {
	pos := []analysis.AnalyzedPO{
		{
			PONumber: "PO100", PODate: "2025-05-01", Vendor: "Acme Corp",
			State: analysis.StateUnknown,
			MissingDueDateLines: []analysis.LineRef{
				{LineNo: 1, Item: "WIDGET"},
				{LineNo: 3, Item: "BRACKET"},
			},
		},
		{PONumber: "PO200", Vendor: "Globex", State: analysis.StateDue},
	}

	path := filepath.Join(t.TempDir(), "missing.xlsx")
	rows, err := WriteBuyerWorkbook(path, pos)
	if err != nil {
		t.Fatalf("WriteBuyerWorkbook: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue(buyerSheet, "E3")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "BRACKET" {
		t.Errorf("E3 = %q, want BRACKET", got)
	}

	header, _ := f.GetCellValue(buyerSheet, "A1")
	if header != "PO Number" {
		t.Errorf("A1 = %q", header)
	}
}
