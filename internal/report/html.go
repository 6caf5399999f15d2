// Package report renders run artifacts: an HTML summary of every email
// the engine generated, and an Excel workbook listing the PO lines whose
// due dates a buyer still needs to fill in.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/ledger"
)

//go:embed report.tmpl
var reportTemplate string

// EmailPO is one purchase order referenced by a rendered email.
type EmailPO struct {
	PONumber string
	State    analysis.State
}

// Email is one generated message as the report shows it.
type Email struct {
	Vendor      string
	VendorEmail string
	Subject     string
	Body        string
	Status      string
	POs         []EmailPO
}

// Setting is one run-configuration row.
type Setting struct {
	Key   string
	Value string
}

// Data is everything the HTML report renders.
type Data struct {
	GeneratedAt time.Time
	DryRun      bool
	Engine      string
	HorizonDays int
	Stats       analysis.Stats
	Emails      []Email
	Settings    []Setting
}

// Mode labels the run for the report header.
func (d Data) Mode() string {
	if d.DryRun {
		return "DRY-RUN"
	}
	return "LIVE"
}

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"badgeClass": func(status string) string {
		switch status {
		case ledger.StatusDryRun:
			return "status-dry-run"
		case ledger.StatusDrafted:
			return "status-drafted"
		case ledger.StatusFailed:
			return "status-failed"
		default:
			return "status-throttled"
		}
	},
	"badgeText": func(status string) string {
		switch status {
		case ledger.StatusDryRun:
			return "Dry Run"
		case ledger.StatusDrafted:
			return "Drafted"
		case ledger.StatusFailed:
			return "Failed"
		default:
			return status
		}
	},
	"stateClass": func(s analysis.State) string {
		switch s {
		case analysis.StatePastDue:
			return "past-due"
		case analysis.StateDue:
			return "due"
		default:
			return ""
		}
	},
}).Parse(reportTemplate))

// Render writes the HTML report. html/template escapes email bodies, so
// vendor-supplied text cannot inject markup.
func Render(w io.Writer, d Data) error {
	if err := tmpl.Execute(w, d); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteHTML renders the report to path, creating parent directories.
// An empty path defaults to logs/inquiry_report_<timestamp>.html.
// Returns the path written.
func WriteHTML(path string, d Data) (string, error) {
	if path == "" {
		path = fmt.Sprintf("logs/inquiry_report_%s.html", d.GeneratedAt.Format("20060102_150405"))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := Render(f, d); err != nil {
		return "", err
	}
	return path, nil
}
