package briefs_test

import (
	"testing"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/briefs"
)

func analyzedPO(id, number, email string, state analysis.State, due string) analysis.AnalyzedPO {
	po := analysis.AnalyzedPO{
		POID:              id,
		PONumber:          number,
		Vendor:            "Acme Corp",
		VendorEmail:       email,
		State:             state,
		RecommendedAction: analysis.ActionInquire,
		ShouldInquire:     true,
		EligibleLines: []analysis.Line{
			{LineNo: 1, Item: "WIDGET", DueDate: due, QtyOpen: "5", QtyOnShipments: "0"},
		},
	}
	if d, ok := analysis.ParseDate(due); ok {
		po.EarliestDue = &d
	}
	return po
}

func TestBuildGrouping(t *testing.T) {
	t.Run("groups by exact address", func(t *testing.T) {
		pos := []analysis.AnalyzedPO{
			analyzedPO("1", "PO1", "a@vendor.test", analysis.StateDue, "2025-06-10"),
			analyzedPO("2", "PO2", "a@vendor.test", analysis.StateDue, "2025-06-11"),
			analyzedPO("3", "PO3", "A@vendor.test", analysis.StateDue, "2025-06-12"),
		}
		result := briefs.Build(pos, briefs.Limits{})
		if len(result.Briefs) != 2 {
			t.Fatalf("brief count = %d, want 2 (addresses differing in case stay separate)", len(result.Briefs))
		}
		if len(result.Briefs[0].POs) != 2 {
			t.Errorf("first brief PO count = %d, want 2", len(result.Briefs[0].POs))
		}
	})

	t.Run("skips non-inquiry actions", func(t *testing.T) {
		po := analyzedPO("1", "PO1", "a@vendor.test", analysis.StateUnknown, "")
		po.RecommendedAction = analysis.ActionNotifyBuyer
		result := briefs.Build([]analysis.AnalyzedPO{po}, briefs.Limits{})
		if len(result.Briefs) != 0 {
			t.Errorf("brief count = %d, want 0", len(result.Briefs))
		}
	})

	t.Run("missing address counted, not dropped silently", func(t *testing.T) {
		po := analyzedPO("1", "PO1", "", analysis.StateDue, "2025-06-10")
		result := briefs.Build([]analysis.AnalyzedPO{po}, briefs.Limits{})
		if result.Stats.SkippedMissingEmail != 1 {
			t.Errorf("SkippedMissingEmail = %d, want 1", result.Stats.SkippedMissingEmail)
		}
	})

	t.Run("vendors retained in analysis order", func(t *testing.T) {
		pos := []analysis.AnalyzedPO{
			analyzedPO("1", "PO1", "b@vendor.test", analysis.StateDue, "2025-06-10"),
			analyzedPO("2", "PO2", "a@vendor.test", analysis.StateDue, "2025-06-10"),
		}
		result := briefs.Build(pos, briefs.Limits{})
		if result.Briefs[0].VendorEmail != "b@vendor.test" {
			t.Errorf("first vendor = %s, want b@vendor.test", result.Briefs[0].VendorEmail)
		}
	})
}

func TestBuildCaps(t *testing.T) {
	t.Run("po cap truncates identifiers to match", func(t *testing.T) {
		pos := []analysis.AnalyzedPO{
			analyzedPO("10", "PO1", "x@vendor.test", analysis.StateDue, "2025-06-10"),
			analyzedPO("11", "PO2", "x@vendor.test", analysis.StateDue, "2025-06-11"),
			analyzedPO("12", "PO3", "x@vendor.test", analysis.StateDue, "2025-06-12"),
		}
		result := briefs.Build(pos, briefs.Limits{MaxPOsPerVendor: 2})
		b := result.Briefs[0]

		if len(b.POs) != 2 {
			t.Fatalf("PO count = %d, want 2", len(b.POs))
		}
		if len(b.POIDs) != 2 {
			t.Fatalf("POID count = %d, want 2", len(b.POIDs))
		}
		retained := map[string]bool{b.POs[0].POID: true, b.POs[1].POID: true}
		for _, id := range b.POIDs {
			if !retained[id] {
				t.Errorf("POID %s references a PO excluded by the cap", id)
			}
		}
	})

	t.Run("po cap truncates summary counts to match", func(t *testing.T) {
		pos := []analysis.AnalyzedPO{
			analyzedPO("10", "PO1", "x@vendor.test", analysis.StatePastDue, "2025-05-10"),
			analyzedPO("11", "PO2", "x@vendor.test", analysis.StatePastDue, "2025-05-11"),
			analyzedPO("12", "PO3", "x@vendor.test", analysis.StatePastDue, "2025-05-12"),
		}
		result := briefs.Build(pos, briefs.Limits{MaxPOsPerVendor: 2})
		b := result.Briefs[0]

		if b.Summary.PastDuePOs != 2 {
			t.Errorf("Summary.PastDuePOs = %d, want 2 (capped list)", b.Summary.PastDuePOs)
		}
		if b.Summary.DuePOs != 0 || b.Summary.UnknownPOs != 0 {
			t.Errorf("Summary = %+v, want only past-due counts", b.Summary)
		}

		subject, _ := briefs.Compose(b, briefs.Signature{Name: "Pat", Company: "Apache"})
		if subject != "PO Status Update Requested - 2 Past Due" {
			t.Errorf("subject = %q, want count of included POs only", subject)
		}
	})

	t.Run("vendor cap tracked", func(t *testing.T) {
		pos := []analysis.AnalyzedPO{
			analyzedPO("1", "PO1", "a@vendor.test", analysis.StateDue, "2025-06-10"),
			analyzedPO("2", "PO2", "b@vendor.test", analysis.StateDue, "2025-06-10"),
			analyzedPO("3", "PO3", "c@vendor.test", analysis.StateDue, "2025-06-10"),
		}
		result := briefs.Build(pos, briefs.Limits{MaxVendors: 2})
		if len(result.Briefs) != 2 {
			t.Errorf("brief count = %d, want 2", len(result.Briefs))
		}
		if result.Stats.CappedVendors != 1 {
			t.Errorf("CappedVendors = %d, want 1", result.Stats.CappedVendors)
		}
	})

	t.Run("line cap applies per PO", func(t *testing.T) {
		po := analyzedPO("1", "PO1", "a@vendor.test", analysis.StateDue, "2025-06-10")
		po.EligibleLines = []analysis.Line{
			{LineNo: 1, Item: "A", DueDate: "2025-06-10", QtyOpen: "1"},
			{LineNo: 2, Item: "B", DueDate: "2025-06-10", QtyOpen: "1"},
			{LineNo: 3, Item: "C", DueDate: "2025-06-10", QtyOpen: "1"},
		}
		result := briefs.Build([]analysis.AnalyzedPO{po}, briefs.Limits{MaxLinesPerPO: 2})
		if got := len(result.Briefs[0].POs[0].Lines); got != 2 {
			t.Errorf("line count = %d, want 2", got)
		}
	})
}

func TestSuppressed(t *testing.T) {
	due := analyzedPO("1", "PO1", "a@vendor.test", analysis.StateDue, "2025-06-10")
	due.ShouldInquire = false
	due.CadenceReason = analysis.ReasonDueAlreadyTouched

	result := briefs.Build([]analysis.AnalyzedPO{due}, briefs.Limits{})
	if !result.Briefs[0].Suppressed() {
		t.Error("brief with only throttled POs should report Suppressed")
	}

	due.ShouldInquire = true
	result = briefs.Build([]analysis.AnalyzedPO{due}, briefs.Limits{})
	if result.Briefs[0].Suppressed() {
		t.Error("brief with an active PO should not report Suppressed")
	}
}

func TestSortPOs(t *testing.T) {
	mk := func(number string, state analysis.State, due string) briefs.PO {
		return briefs.PO{PONumber: number, State: state, EarliestDue: due}
	}
	input := []briefs.PO{
		mk("PO1", analysis.StatePastDue, "2025-06-01"),
		mk("PO2", analysis.StateDue, "2025-06-10"),
		mk("PO3", analysis.StatePastDue, "2025-05-20"),
	}

	got := briefs.SortPOs(input)
	wantOrder := []string{"PO3", "PO1", "PO2"}
	for i, want := range wantOrder {
		if got[i].PONumber != want {
			t.Fatalf("position %d = %s, want %s (full order %v)", i, got[i].PONumber, want, numbers(got))
		}
	}

	if input[0].PONumber != "PO1" {
		t.Error("SortPOs modified its input")
	}

	t.Run("missing due dates sort last within rank", func(t *testing.T) {
		got := briefs.SortPOs([]briefs.PO{
			mk("PO1", analysis.StateDue, ""),
			mk("PO2", analysis.StateDue, "2025-06-10"),
		})
		if got[0].PONumber != "PO2" {
			t.Errorf("first = %s, want PO2", got[0].PONumber)
		}
	})

	t.Run("po number breaks date ties", func(t *testing.T) {
		got := briefs.SortPOs([]briefs.PO{
			mk("PO9", analysis.StateDue, "2025-06-10"),
			mk("PO2", analysis.StateDue, "2025-06-10"),
		})
		if got[0].PONumber != "PO2" {
			t.Errorf("first = %s, want PO2", got[0].PONumber)
		}
	})
}

func numbers(pos []briefs.PO) []string {
	out := make([]string, len(pos))
	for i, po := range pos {
		out[i] = po.PONumber
	}
	return out
}
