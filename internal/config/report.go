package config

import "os"

const (
	EnvReportHTMLDir      = "CHASER_REPORT_HTML_DIR"
	EnvReportWorkbookPath = "CHASER_REPORT_WORKBOOK_PATH"
)

// ReportConfig locates the run artifacts.
type ReportConfig struct {
	// HTMLDir is where timestamped HTML reports land.
	HTMLDir string `toml:"html_dir"`

	// WorkbookPath is where the missing-due-dates workbook is written.
	WorkbookPath string `toml:"workbook_path"`
}

// Finalize applies defaults and environment variable overrides.
func (c *ReportConfig) Finalize() error {
	if c.HTMLDir == "" {
		c.HTMLDir = "logs"
	}
	if c.WorkbookPath == "" {
		c.WorkbookPath = "logs/missing_due_dates.xlsx"
	}
	if v := os.Getenv(EnvReportHTMLDir); v != "" {
		c.HTMLDir = v
	}
	if v := os.Getenv(EnvReportWorkbookPath); v != "" {
		c.WorkbookPath = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ReportConfig) Merge(overlay *ReportConfig) {
	if overlay.HTMLDir != "" {
		c.HTMLDir = overlay.HTMLDir
	}
	if overlay.WorkbookPath != "" {
		c.WorkbookPath = overlay.WorkbookPath
	}
}
