// Package briefs groups analyzed purchase orders into per-vendor bundles
// sized for a single outbound message, and renders the deterministic
// subject/body for each bundle. Briefs are rebuilt from scratch each run
// and never persisted.
package briefs

import (
	"sort"

	"github.com/apachepressure/chaser/internal/analysis"
)

// Default caps keep a brief small enough for one email (and one LLM prompt).
const (
	DefaultMaxVendors      = 50
	DefaultMaxPOsPerVendor = 20
	DefaultMaxLinesPerPO   = 50
)

// Limits caps brief construction. Zero values take the defaults.
type Limits struct {
	MaxVendors      int
	MaxPOsPerVendor int
	MaxLinesPerPO   int
}

func (l Limits) finalize() Limits {
	if l.MaxVendors <= 0 {
		l.MaxVendors = DefaultMaxVendors
	}
	if l.MaxPOsPerVendor <= 0 {
		l.MaxPOsPerVendor = DefaultMaxPOsPerVendor
	}
	if l.MaxLinesPerPO <= 0 {
		l.MaxLinesPerPO = DefaultMaxLinesPerPO
	}
	return l
}

// Line is one eligible line carried into a brief, with quantities coerced.
type Line struct {
	LineNo         int    `json:"line_no"`
	Item           string `json:"item"`
	PromiseDate    string `json:"promise_date"`
	DueDate        string `json:"due_date"`
	QtyOpen        int    `json:"qty_open"`
	QtyOnShipments int    `json:"qty_on_shipments"`
}

// PO is one purchase order's slice of a vendor brief.
type PO struct {
	POID                 string          `json:"po_id"`
	PONumber             string          `json:"po_number"`
	PODate               string          `json:"po_date"`
	State                analysis.State  `json:"state"`
	EarliestDue          string          `json:"earliest_due_date"`
	DaysSinceLastInquiry *int            `json:"days_since_last_inquiry"`
	ShouldInquire        bool            `json:"should_inquire"`
	CadenceReason        analysis.Reason `json:"cadence_reason,omitempty"`
	Lines                []Line          `json:"lines"`
	AnyOnShipments       bool            `json:"any_on_shipments"`
}

// Summary counts the brief's POs by state.
type Summary struct {
	DuePOs     int `json:"due_pos"`
	PastDuePOs int `json:"past_due_pos"`
	UnknownPOs int `json:"unknown_pos"`
}

// Brief is the per-vendor bundle handed to a templater and then to delivery.
type Brief struct {
	Vendor      string   `json:"vendor"`
	VendorEmail string   `json:"vendor_email"`
	POIDs       []string `json:"po_ids"`
	POs         []PO     `json:"pos"`
	Summary     Summary  `json:"summary"`
}

// Suppressed reports whether every PO in the brief was throttled by the
// cadence policy. Dispatch may skip such briefs without losing anything:
// each PO will surface again once its window or interval allows.
func (b Brief) Suppressed() bool {
	for _, po := range b.POs {
		if po.ShouldInquire {
			return false
		}
	}
	return len(b.POs) > 0
}

// Stats summarizes one aggregation pass.
type Stats struct {
	VendorCount         int `json:"vendor_count"`
	TotalPOs            int `json:"total_pos"`
	TotalLines          int `json:"total_lines"`
	CappedVendors       int `json:"capped_vendors"`
	SkippedMissingEmail int `json:"skipped_missing_vendor_email"`
}

// Result is the full output of Build.
type Result struct {
	Briefs []Brief `json:"briefs"`
	Stats  Stats   `json:"stats"`
}

// Build groups inquiry-recommended POs by vendor email and applies the
// caps. Grouping matches the address string exactly as provided; POs keep
// the order they were analyzed in. POs without a contact address are
// excluded and counted, never silently dropped.
func Build(pos []analysis.AnalyzedPO, limits Limits) Result {
	limits = limits.finalize()

	var order []string
	buckets := make(map[string]*Brief)
	var stats Stats

	for _, po := range pos {
		if po.RecommendedAction != analysis.ActionInquire {
			continue
		}
		if po.VendorEmail == "" {
			stats.SkippedMissingEmail++
			continue
		}

		b, ok := buckets[po.VendorEmail]
		if !ok {
			vendor := po.Vendor
			if vendor == "" {
				vendor = "(Vendor)"
			}
			b = &Brief{Vendor: vendor, VendorEmail: po.VendorEmail}
			buckets[po.VendorEmail] = b
			order = append(order, po.VendorEmail)
		}

		b.POs = append(b.POs, briefPO(po, limits.MaxLinesPerPO))
	}

	briefs := make([]Brief, 0, len(order))
	for _, email := range order {
		b := buckets[email]
		if len(b.POs) > limits.MaxPOsPerVendor {
			b.POs = b.POs[:limits.MaxPOsPerVendor]
		}
		// Identifiers and summary counts are derived from the retained
		// POs so a capped brief never references or counts a PO it no
		// longer includes.
		b.POIDs = make([]string, 0, len(b.POs))
		for _, po := range b.POs {
			if po.POID != "" {
				b.POIDs = append(b.POIDs, po.POID)
			}
			switch po.State {
			case analysis.StateDue:
				b.Summary.DuePOs++
			case analysis.StatePastDue:
				b.Summary.PastDuePOs++
			default:
				b.Summary.UnknownPOs++
			}
		}
		briefs = append(briefs, *b)
	}

	if len(briefs) > limits.MaxVendors {
		stats.CappedVendors = len(briefs) - limits.MaxVendors
		briefs = briefs[:limits.MaxVendors]
	}

	stats.VendorCount = len(briefs)
	for _, b := range briefs {
		stats.TotalPOs += len(b.POs)
		for _, po := range b.POs {
			stats.TotalLines += len(po.Lines)
		}
	}

	return Result{Briefs: briefs, Stats: stats}
}

func briefPO(po analysis.AnalyzedPO, maxLines int) PO {
	out := PO{
		POID:                 po.POID,
		PONumber:             po.PONumber,
		PODate:               po.PODate,
		State:                po.State,
		DaysSinceLastInquiry: po.DaysSinceLastInquiry,
		ShouldInquire:        po.ShouldInquire,
		CadenceReason:        po.CadenceReason,
	}
	if po.EarliestDue != nil {
		out.EarliestDue = po.EarliestDue.Format("2006-01-02")
	}

	lines := po.EligibleLines
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	out.Lines = make([]Line, 0, len(lines))
	for _, ln := range lines {
		bl := Line{
			LineNo:         ln.LineNo,
			Item:           ln.Item,
			PromiseDate:    ln.PromiseDate,
			DueDate:        ln.DueDate,
			QtyOpen:        analysis.CoerceQty(ln.QtyOpen),
			QtyOnShipments: analysis.CoerceQty(ln.QtyOnShipments),
		}
		if bl.QtyOnShipments > 0 {
			out.AnyOnShipments = true
		}
		out.Lines = append(out.Lines, bl)
	}
	return out
}

// SortPOs returns the POs in message order: Past Due first, then Due, then
// anything else; ascending earliest due date within a rank (missing dates
// last); ascending PO number within a date. The input is not modified.
func SortPOs(pos []PO) []PO {
	sorted := make([]PO, len(pos))
	copy(sorted, pos)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := stateRank(sorted[i].State), stateRank(sorted[j].State)
		if ri != rj {
			return ri < rj
		}
		di, dj := dueKey(sorted[i].EarliestDue), dueKey(sorted[j].EarliestDue)
		if di != dj {
			return di < dj
		}
		return sorted[i].PONumber < sorted[j].PONumber
	})
	return sorted
}

func stateRank(s analysis.State) int {
	switch s {
	case analysis.StatePastDue:
		return 0
	case analysis.StateDue:
		return 1
	default:
		return 2
	}
}

func dueKey(iso string) string {
	if iso == "" {
		return "9999-12-31"
	}
	return iso
}
