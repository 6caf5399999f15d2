package analysis

import "time"

// CadencePolicy carries the spacing parameters for inquiry throttling.
type CadencePolicy struct {
	HorizonDays   int
	ReinquiryDays int
}

// ShouldInquire decides whether a PO with eligible lines should be contacted
// now, and why. lastSent is nil when no prior inquiry exists (including the
// future-dated bad-data case, which callers must have normalized already).
//
// Due POs get at most one inquiry per due-window: the window opens
// HorizonDays before the earliest due date, and any inquiry sent inside it
// suppresses another. Past-due POs are re-contacted on a fixed interval.
// Normal and Unknown POs never reach this policy; they have no eligible lines.
func ShouldInquire(state State, earliestDue time.Time, lastSent *time.Time, today time.Time, policy CadencePolicy) (bool, Reason) {
	switch state {
	case StateDue:
		windowStart := earliestDue.AddDate(0, 0, -policy.HorizonDays)
		if lastSent == nil || lastSent.Before(windowStart) {
			return true, ReasonDueFirstTouch
		}
		return false, ReasonDueAlreadyTouched
	case StatePastDue:
		if lastSent == nil || daysBetween(*lastSent, today) >= policy.ReinquiryDays {
			return true, ReasonPastDueWeekly
		}
		return false, ReasonPastDueWaiting
	default:
		return false, ""
	}
}
