package analysis_test

import (
	"testing"
	"time"

	"github.com/apachepressure/chaser/internal/analysis"
)

var defaultPolicy = analysis.CadencePolicy{
	HorizonDays:   analysis.DefaultHorizonDays,
	ReinquiryDays: analysis.DefaultReinquiryDays,
}

func TestDueWindowCadence(t *testing.T) {
	today := date(2025, 6, 1)
	earliestDue := date(2025, 6, 10) // window opens 2025-05-27

	t.Run("no prior inquiry", func(t *testing.T) {
		ok, reason := analysis.ShouldInquire(analysis.StateDue, earliestDue, nil, today, defaultPolicy)
		if !ok || reason != analysis.ReasonDueFirstTouch {
			t.Errorf("got %v/%s, want true/%s", ok, reason, analysis.ReasonDueFirstTouch)
		}
	})

	t.Run("last touch before the window", func(t *testing.T) {
		last := date(2025, 5, 20)
		ok, reason := analysis.ShouldInquire(analysis.StateDue, earliestDue, &last, today, defaultPolicy)
		if !ok || reason != analysis.ReasonDueFirstTouch {
			t.Errorf("got %v/%s, want true/%s", ok, reason, analysis.ReasonDueFirstTouch)
		}
	})

	t.Run("already touched inside the window", func(t *testing.T) {
		last := date(2025, 5, 28)
		ok, reason := analysis.ShouldInquire(analysis.StateDue, earliestDue, &last, today, defaultPolicy)
		if ok || reason != analysis.ReasonDueAlreadyTouched {
			t.Errorf("got %v/%s, want false/%s", ok, reason, analysis.ReasonDueAlreadyTouched)
		}
	})

	t.Run("touch exactly at window start suppresses", func(t *testing.T) {
		last := date(2025, 5, 27)
		ok, _ := analysis.ShouldInquire(analysis.StateDue, earliestDue, &last, today, defaultPolicy)
		if ok {
			t.Error("inquiry at window start should suppress a second touch")
		}
	})
}

func TestPastDueCadence(t *testing.T) {
	today := date(2025, 6, 20)
	earliestDue := date(2025, 6, 1)

	t.Run("seven days elapsed", func(t *testing.T) {
		last := date(2025, 6, 13)
		ok, reason := analysis.ShouldInquire(analysis.StatePastDue, earliestDue, &last, today, defaultPolicy)
		if !ok || reason != analysis.ReasonPastDueWeekly {
			t.Errorf("got %v/%s, want true/%s", ok, reason, analysis.ReasonPastDueWeekly)
		}
	})

	t.Run("six days elapsed", func(t *testing.T) {
		last := date(2025, 6, 14)
		ok, reason := analysis.ShouldInquire(analysis.StatePastDue, earliestDue, &last, today, defaultPolicy)
		if ok || reason != analysis.ReasonPastDueWaiting {
			t.Errorf("got %v/%s, want false/%s", ok, reason, analysis.ReasonPastDueWaiting)
		}
	})

	t.Run("no prior inquiry", func(t *testing.T) {
		ok, reason := analysis.ShouldInquire(analysis.StatePastDue, earliestDue, nil, today, defaultPolicy)
		if !ok || reason != analysis.ReasonPastDueWeekly {
			t.Errorf("got %v/%s, want true/%s", ok, reason, analysis.ReasonPastDueWeekly)
		}
	})
}

func TestCadenceIgnoresOtherStates(t *testing.T) {
	today := date(2025, 6, 1)
	for _, state := range []analysis.State{analysis.StateNormal, analysis.StateUnknown} {
		ok, reason := analysis.ShouldInquire(state, time.Time{}, nil, today, defaultPolicy)
		if ok || reason != "" {
			t.Errorf("state %s: got %v/%q, want false with no reason", state, ok, reason)
		}
	}
}
