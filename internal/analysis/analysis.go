// Package analysis implements the PO decision core: line normalization,
// per-PO urgency classification, inquiry eligibility, and the cadence
// policy that throttles repeat vendor contact. Everything here is a pure
// function of its inputs and the as-of date; no I/O, no retained state.
package analysis

import "time"

// State is the urgency classification of a purchase order.
type State string

const (
	StateNormal  State = "Normal"
	StateDue     State = "Due"
	StatePastDue State = "Past Due"
	StateUnknown State = "Unknown"
)

// Action is the recommended follow-up for a purchase order.
type Action string

const (
	ActionNone        Action = "none"
	ActionInquire     Action = "inquire_vendor"
	ActionNotifyBuyer Action = "notify_buyer_missing_due_dates"
)

// Reason explains a cadence decision. Empty when the policy was not consulted.
type Reason string

const (
	ReasonDueFirstTouch     Reason = "due_first_touch"
	ReasonDueAlreadyTouched Reason = "due_already_touched"
	ReasonPastDueWeekly     Reason = "past_due_weekly"
	ReasonPastDueWaiting    Reason = "past_due_waiting_week"
)

// Line is one raw PO line as delivered by the source system. Quantities and
// dates arrive as strings (the source frequently returns numbers as strings)
// and are coerced at the point of use.
type Line struct {
	LineNo         int    `json:"line_no"`
	Item           string `json:"item"`
	PromiseDate    string `json:"promise_date"`
	DueDate        string `json:"line_due_date"`
	QtyOrdered     string `json:"qty_ordered"`
	QtyReceived    string `json:"qty_received"`
	QtyOpen        string `json:"qty_open"`
	QtyOnShipments string `json:"qty_on_shipments"`
}

// PurchaseOrder aggregates the raw lines of one open PO.
type PurchaseOrder struct {
	POID            string `json:"po_id"`
	PONumber        string `json:"po_number"`
	PODate          string `json:"po_date"`
	Vendor          string `json:"vendor"`
	VendorEmail     string `json:"vendor_email"`
	LastInquirySent string `json:"last_inq_sent_date"`
	Lines           []Line `json:"lines"`
}

// LineRef identifies a line flagged for buyer attention.
type LineRef struct {
	LineNo int    `json:"line_no"`
	Item   string `json:"item"`
}

// AnalyzedPO is the immutable classification result for one purchase order.
type AnalyzedPO struct {
	POID            string `json:"po_id"`
	PONumber        string `json:"po_number"`
	PODate          string `json:"po_date"`
	Vendor          string `json:"vendor"`
	VendorEmail     string `json:"vendor_email"`
	LastInquirySent string `json:"last_inq_sent_date"`

	State       State      `json:"state"`
	EarliestDue *time.Time `json:"earliest_due_date"`

	// OpenLineCount counts actionable lines: open and not fully shipped.
	OpenLineCount       int       `json:"open_line_count"`
	MissingDueDateLines []LineRef `json:"missing_due_date_lines"`
	EligibleLines       []Line    `json:"eligible_lines_for_inquiry"`

	RecommendedAction    Action `json:"recommended_action"`
	DaysSinceLastInquiry *int   `json:"days_since_last_inquiry"`

	// Cadence metadata. ShouldInquire does not gate RecommendedAction;
	// downstream dispatch decides what to do with a suppressed PO.
	ShouldInquire bool   `json:"should_inquire"`
	CadenceReason Reason `json:"cadence_reason,omitempty"`
}

// Stats summarizes one analysis run.
type Stats struct {
	AsOf                 string `json:"as_of"`
	POCount              int    `json:"po_count"`
	LineCount            int    `json:"line_count"`
	NormalCount          int    `json:"normal_count"`
	DueCount             int    `json:"due_count"`
	PastDueCount         int    `json:"past_due_count"`
	NeedsBuyerDataCount  int    `json:"needs_buyer_data_count"`
	EligibleInquiryCount int    `json:"eligible_for_inquiry_count"`
}

// Result is the full output of Analyze.
type Result struct {
	PurchaseOrders []AnalyzedPO `json:"purchase_orders"`
	Stats          Stats        `json:"stats"`
}
