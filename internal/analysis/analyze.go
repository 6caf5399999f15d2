package analysis

import "time"

// Policy defaults. The horizon is the look-ahead window that flags a PO as
// Due; the re-inquiry interval is the minimum spacing between past-due
// follow-ups.
const (
	DefaultHorizonDays   = 14
	DefaultReinquiryDays = 7
)

// Options configures one analysis pass.
type Options struct {
	// AsOf is the evaluation date. Zero means the current date.
	AsOf time.Time
	// HorizonDays overrides DefaultHorizonDays when positive.
	HorizonDays int
	// ReinquiryDays overrides DefaultReinquiryDays when positive.
	ReinquiryDays int
}

func (o Options) finalize() Options {
	if o.AsOf.IsZero() {
		o.AsOf = time.Now()
	}
	o.AsOf = Day(o.AsOf)
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.ReinquiryDays <= 0 {
		o.ReinquiryDays = DefaultReinquiryDays
	}
	return o
}

// Analyze classifies every purchase order and accumulates run statistics.
// Classification of each PO depends only on that PO's actionable lines and
// the as-of date; order of input never changes any per-PO result.
func Analyze(pos []PurchaseOrder, opts Options) *Result {
	opts = opts.finalize()

	result := &Result{
		PurchaseOrders: make([]AnalyzedPO, 0, len(pos)),
		Stats:          Stats{AsOf: opts.AsOf.Format(layoutISO)},
	}

	for _, po := range pos {
		result.Stats.POCount++
		result.Stats.LineCount += len(po.Lines)

		analyzed := classify(po, opts)
		switch analyzed.State {
		case StateNormal:
			result.Stats.NormalCount++
		case StateDue:
			result.Stats.DueCount++
		case StatePastDue:
			result.Stats.PastDueCount++
		}
		if analyzed.RecommendedAction == ActionNotifyBuyer || len(analyzed.MissingDueDateLines) > 0 {
			result.Stats.NeedsBuyerDataCount++
		}
		if analyzed.RecommendedAction == ActionInquire {
			result.Stats.EligibleInquiryCount++
		}

		result.PurchaseOrders = append(result.PurchaseOrders, analyzed)
	}

	return result
}

// classify derives the full AnalyzedPO for one purchase order. Every field
// is computed fresh here; nothing leaks between invocations.
func classify(po PurchaseOrder, opts Options) AnalyzedPO {
	analyzed := AnalyzedPO{
		POID:            po.POID,
		PONumber:        po.PONumber,
		PODate:          po.PODate,
		Vendor:          po.Vendor,
		VendorEmail:     po.VendorEmail,
		LastInquirySent: po.LastInquirySent,
	}

	actionable := actionableLines(po.Lines)
	analyzed.OpenLineCount = len(actionable)

	var dueDates []time.Time
	for _, ln := range actionable {
		if due, ok := ParseDate(ln.DueDate); ok {
			dueDates = append(dueDates, due)
		} else {
			analyzed.MissingDueDateLines = append(analyzed.MissingDueDateLines,
				LineRef{LineNo: ln.LineNo, Item: ln.Item})
		}
	}

	// Without a single parseable due date the PO cannot be classified;
	// that includes POs whose lines are all shipped out from under them.
	if len(dueDates) == 0 {
		analyzed.State = StateUnknown
		analyzed.RecommendedAction = ActionNotifyBuyer
		return analyzed
	}

	earliest := dueDates[0]
	for _, d := range dueDates[1:] {
		if d.Before(earliest) {
			earliest = d
		}
	}
	analyzed.EarliestDue = &earliest
	analyzed.State = stateFor(earliest, opts.AsOf, opts.HorizonDays)

	horizonEnd := opts.AsOf.AddDate(0, 0, opts.HorizonDays)
	for _, ln := range actionable {
		due, ok := ParseDate(ln.DueDate)
		if !ok {
			continue
		}
		// Same shipped-in-full predicate as the actionable filter; the
		// eligibility pass re-applies it so a line never slips through
		// on due date alone.
		if fullyShipped(ln) {
			continue
		}
		if !due.After(horizonEnd) {
			analyzed.EligibleLines = append(analyzed.EligibleLines, ln)
		}
	}

	lastSent := lastInquiryDate(po.LastInquirySent, opts.AsOf)
	if lastSent != nil {
		days := daysBetween(*lastSent, opts.AsOf)
		analyzed.DaysSinceLastInquiry = &days
	}

	if len(analyzed.EligibleLines) > 0 {
		analyzed.ShouldInquire, analyzed.CadenceReason = ShouldInquire(
			analyzed.State, earliest, lastSent, opts.AsOf, CadencePolicy{
				HorizonDays:   opts.HorizonDays,
				ReinquiryDays: opts.ReinquiryDays,
			})
	}

	analyzed.RecommendedAction = ActionNone
	if len(analyzed.MissingDueDateLines) > 0 {
		analyzed.RecommendedAction = ActionNotifyBuyer
	}
	if len(analyzed.EligibleLines) > 0 {
		// Eligibility wins over the missing-data flag; the missing lines
		// stay reported either way.
		analyzed.RecommendedAction = ActionInquire
	}

	return analyzed
}

// actionableLines filters to open lines that are not fully or over-shipped.
// The open check repeats the source query's qty_open > 0 filter defensively.
func actionableLines(lines []Line) []Line {
	var out []Line
	for _, ln := range lines {
		if CoerceQty(ln.QtyOpen) <= 0 {
			continue
		}
		if fullyShipped(ln) {
			continue
		}
		out = append(out, ln)
	}
	return out
}

func fullyShipped(ln Line) bool {
	ordered := CoerceQty(ln.QtyOrdered)
	onShipments := CoerceQty(ln.QtyOnShipments)
	return ordered > 0 && onShipments >= ordered
}

func stateFor(earliestDue, asOf time.Time, horizonDays int) State {
	if earliestDue.Before(asOf) {
		return StatePastDue
	}
	if !earliestDue.After(asOf.AddDate(0, 0, horizonDays)) {
		return StateDue
	}
	return StateNormal
}

// lastInquiryDate parses the recorded last-inquiry date. A date in the
// future (clock skew or bad source data) is treated as no prior inquiry.
func lastInquiryDate(raw string, asOf time.Time) *time.Time {
	sent, ok := ParseDate(raw)
	if !ok || sent.After(asOf) {
		return nil
	}
	return &sent
}
