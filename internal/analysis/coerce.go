package analysis

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date layouts accepted from the source system, in priority order.
const (
	layoutUS  = "01/02/2006"
	layoutISO = "2006-01-02"
)

// CoerceQty converts a raw quantity value to an integer count. Empty or
// unparsable input coerces to 0; string-encoded floats truncate toward
// zero ("12.7" -> 12), matching the source system's behavior.
func CoerceQty(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

// ParseDate parses a calendar date in MM/DD/YYYY form, falling back to
// YYYY-MM-DD. Anything else, including empty input, reports ok=false.
// The result is a pure date at UTC midnight.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.ParseInLocation(layoutUS, s, time.UTC); err == nil {
		return d, true
	}
	if d, err := time.ParseInLocation(layoutISO, s, time.UTC); err == nil {
		return d, true
	}
	return time.Time{}, false
}

// Day truncates t to a pure date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b. Both are expected to be
// UTC midnights, so the division is exact.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
