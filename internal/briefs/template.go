package briefs

import (
	"fmt"
	"strings"
)

// Signature is the closing block appended to composed messages.
type Signature struct {
	Name    string
	Company string
}

// Compose renders the deterministic subject and body for a vendor brief.
// It is a pure function: identical input yields byte-identical output.
func Compose(b Brief, sig Signature) (subject, body string) {
	return composeSubject(b.Summary), composeBody(b, sig)
}

func composeSubject(s Summary) string {
	switch {
	case s.PastDuePOs > 0 && s.DuePOs > 0:
		return fmt.Sprintf("PO Status Update Requested - %d Past Due, %d Due", s.PastDuePOs, s.DuePOs)
	case s.PastDuePOs > 0:
		return fmt.Sprintf("PO Status Update Requested - %d Past Due", s.PastDuePOs)
	default:
		return fmt.Sprintf("PO Status Confirmation - %d Due Soon", s.DuePOs)
	}
}

func composeBody(b Brief, sig Signature) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Hello %s,\n\n", b.Vendor)
	sb.WriteString("Please provide a status update on the open line(s) for the purchase order(s) below.\n")
	sb.WriteString("If items are on shipment, please share the latest ETA and tracking/shipment reference.\n")
	sb.WriteString("If items are not yet on shipment, please share the expected ship date.\n\n")

	for _, po := range SortPOs(b.POs) {
		fmt.Fprintf(&sb, "%s (PO Date: %s) | State: %s | Earliest Due: %s\n",
			po.PONumber, po.PODate, po.State, po.EarliestDue)
		for _, ln := range po.Lines {
			fmt.Fprintf(&sb, "  - Line %d: %s | Open Qty: %d | Promise: %s | Due: %s | On Shipments: %d\n",
				ln.LineNo, ln.Item, ln.QtyOpen, ln.PromiseDate, ln.DueDate, ln.QtyOnShipments)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Best regards,\n%s\n%s\n", sig.Name, sig.Company)
	return sb.String()
}
