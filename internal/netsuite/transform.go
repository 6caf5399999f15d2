package netsuite

import (
	"encoding/json"
	"strconv"

	"github.com/apachepressure/chaser/internal/analysis"
)

// flexString decodes a JSON value that may arrive as a string, a number,
// or null. SuiteQL is not consistent about numeric column types, so every
// row field tolerates all three.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Row is one SuiteQL result row: a PO header joined to one of its lines.
type Row struct {
	POID            flexString `json:"po_id"`
	PONumber        flexString `json:"po_number"`
	PODate          flexString `json:"po_date"`
	LastInquirySent flexString `json:"last_inq_sent_date"`
	Vendor          flexString `json:"vendor"`
	VendorEmail     flexString `json:"vendor_email"`
	LineNo          flexString `json:"line_no"`
	Item            flexString `json:"item"`
	PromiseDate     flexString `json:"promise_date"`
	DueDate         flexString `json:"line_due_date"`
	QtyOrdered      flexString `json:"qty_ordered"`
	QtyReceived     flexString `json:"qty_received"`
	QtyOpen         flexString `json:"qty_open"`
	QtyOnShipments  flexString `json:"qty_on_shipments"`
}

// FetchResult is the grouped output of one open-PO-line pull.
type FetchResult struct {
	PurchaseOrders []analysis.PurchaseOrder `json:"purchase_orders"`
	Stats          FetchStats               `json:"stats"`
}

// GroupRows folds joined rows into purchase orders. Header fields are
// taken from the first row seen for each po_id; both PO order and line
// order follow the row ordering.
func GroupRows(rows []Row) []analysis.PurchaseOrder {
	index := make(map[string]int)
	var pos []analysis.PurchaseOrder

	for _, r := range rows {
		id := string(r.POID)

		i, ok := index[id]
		if !ok {
			i = len(pos)
			index[id] = i
			pos = append(pos, analysis.PurchaseOrder{
				POID:            id,
				PONumber:        string(r.PONumber),
				PODate:          string(r.PODate),
				Vendor:          string(r.Vendor),
				VendorEmail:     string(r.VendorEmail),
				LastInquirySent: string(r.LastInquirySent),
			})
		}

		pos[i].Lines = append(pos[i].Lines, analysis.Line{
			LineNo:         lineNo(r.LineNo),
			Item:           string(r.Item),
			PromiseDate:    string(r.PromiseDate),
			DueDate:        string(r.DueDate),
			QtyOrdered:     string(r.QtyOrdered),
			QtyReceived:    string(r.QtyReceived),
			QtyOpen:        string(r.QtyOpen),
			QtyOnShipments: string(r.QtyOnShipments),
		})
	}

	return pos
}

func lineNo(raw flexString) int {
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return n
}
