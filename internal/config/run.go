package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvRunHorizonDays      = "CHASER_RUN_HORIZON_DAYS"
	EnvRunReinquiryDays    = "CHASER_RUN_REINQUIRY_DAYS"
	EnvRunDaysOld          = "CHASER_RUN_DAYS_OLD"
	EnvRunMaxEmails        = "CHASER_RUN_MAX_EMAILS"
	EnvRunSleep            = "CHASER_RUN_SLEEP"
	EnvRunMaxVendors       = "CHASER_RUN_MAX_VENDORS"
	EnvRunMaxPOsPerVendor  = "CHASER_RUN_MAX_POS_PER_VENDOR"
	EnvRunMaxLinesPerPO    = "CHASER_RUN_MAX_LINES_PER_PO"
	EnvRunSignatureName    = "CHASER_RUN_SIGNATURE_NAME"
	EnvRunSignatureCompany = "CHASER_RUN_SIGNATURE_COMPANY"
)

// RunConfig controls the analysis and dispatch behavior of one run.
type RunConfig struct {
	// HorizonDays is how far ahead a due date counts as Due.
	HorizonDays int `toml:"horizon_days"`

	// ReinquiryDays is the minimum gap between past-due inquiries.
	ReinquiryDays int `toml:"reinquiry_days"`

	// DaysOld excludes POs younger than this from the pull.
	DaysOld int `toml:"days_old"`

	// MaxEmails caps drafts per run. Zero means no cap.
	MaxEmails int `toml:"max_emails"`

	// Sleep is the pause between consecutive draft calls.
	Sleep string `toml:"sleep"`

	MaxVendors      int `toml:"max_vendors"`
	MaxPOsPerVendor int `toml:"max_pos_per_vendor"`
	MaxLinesPerPO   int `toml:"max_lines_per_po"`

	SignatureName    string `toml:"signature_name"`
	SignatureCompany string `toml:"signature_company"`
}

// SleepDuration returns Sleep as a time.Duration.
func (c *RunConfig) SleepDuration() time.Duration {
	d, _ := time.ParseDuration(c.Sleep)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RunConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RunConfig) Merge(overlay *RunConfig) {
	if overlay.HorizonDays != 0 {
		c.HorizonDays = overlay.HorizonDays
	}
	if overlay.ReinquiryDays != 0 {
		c.ReinquiryDays = overlay.ReinquiryDays
	}
	if overlay.DaysOld != 0 {
		c.DaysOld = overlay.DaysOld
	}
	if overlay.MaxEmails != 0 {
		c.MaxEmails = overlay.MaxEmails
	}
	if overlay.Sleep != "" {
		c.Sleep = overlay.Sleep
	}
	if overlay.MaxVendors != 0 {
		c.MaxVendors = overlay.MaxVendors
	}
	if overlay.MaxPOsPerVendor != 0 {
		c.MaxPOsPerVendor = overlay.MaxPOsPerVendor
	}
	if overlay.MaxLinesPerPO != 0 {
		c.MaxLinesPerPO = overlay.MaxLinesPerPO
	}
	if overlay.SignatureName != "" {
		c.SignatureName = overlay.SignatureName
	}
	if overlay.SignatureCompany != "" {
		c.SignatureCompany = overlay.SignatureCompany
	}
}

func (c *RunConfig) loadDefaults() {
	if c.HorizonDays == 0 {
		c.HorizonDays = 14
	}
	if c.ReinquiryDays == 0 {
		c.ReinquiryDays = 7
	}
	if c.DaysOld == 0 {
		c.DaysOld = 30
	}
	if c.Sleep == "" {
		c.Sleep = "2s"
	}
	if c.MaxVendors == 0 {
		c.MaxVendors = 50
	}
	if c.MaxPOsPerVendor == 0 {
		c.MaxPOsPerVendor = 20
	}
	if c.MaxLinesPerPO == 0 {
		c.MaxLinesPerPO = 50
	}
	if c.SignatureName == "" {
		c.SignatureName = "Purchasing Team"
	}
	if c.SignatureCompany == "" {
		c.SignatureCompany = "Apache Pressure Products"
	}
}

func (c *RunConfig) loadEnv() {
	setInt := func(envVar string, dst *int) {
		if v := os.Getenv(envVar); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setInt(EnvRunHorizonDays, &c.HorizonDays)
	setInt(EnvRunReinquiryDays, &c.ReinquiryDays)
	setInt(EnvRunDaysOld, &c.DaysOld)
	setInt(EnvRunMaxEmails, &c.MaxEmails)
	setInt(EnvRunMaxVendors, &c.MaxVendors)
	setInt(EnvRunMaxPOsPerVendor, &c.MaxPOsPerVendor)
	setInt(EnvRunMaxLinesPerPO, &c.MaxLinesPerPO)

	if v := os.Getenv(EnvRunSleep); v != "" {
		c.Sleep = v
	}
	if v := os.Getenv(EnvRunSignatureName); v != "" {
		c.SignatureName = v
	}
	if v := os.Getenv(EnvRunSignatureCompany); v != "" {
		c.SignatureCompany = v
	}
}

func (c *RunConfig) validate() error {
	if c.HorizonDays < 1 {
		return fmt.Errorf("invalid horizon_days: %d", c.HorizonDays)
	}
	if c.ReinquiryDays < 1 {
		return fmt.Errorf("invalid reinquiry_days: %d", c.ReinquiryDays)
	}
	if c.DaysOld < 0 {
		return fmt.Errorf("invalid days_old: %d", c.DaysOld)
	}
	if _, err := time.ParseDuration(c.Sleep); err != nil {
		return fmt.Errorf("invalid sleep: %w", err)
	}
	return nil
}
