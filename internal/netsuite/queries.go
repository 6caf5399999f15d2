package netsuite

import (
	"fmt"
	"strings"
)

// OpenPOLinesQuery builds the SuiteQL statement for open purchase order
// lines. Only POs older than daysOld are pulled; pending-receipt statuses
// G and H are excluded at the header, and closed, itemless, and fully
// received lines are excluded at the line. An optional vendor email
// narrows the pull to a single vendor for targeted test runs.
func OpenPOLinesQuery(daysOld int, vendorEmail string) string {
	vendorClause := ""
	if vendorEmail != "" {
		safe := strings.ReplaceAll(vendorEmail, "'", "''")
		vendorClause = fmt.Sprintf("\n    AND v.email = '%s'", safe)
	}

	return fmt.Sprintf(`SELECT
    t.id AS po_id,
    t.tranid AS po_number,
    t.trandate AS po_date,
    t.custbody_last_inq_sent_date_ AS last_inq_sent_date,
    BUILTIN.DF(t.entity) AS vendor,
    v.email AS vendor_email,
    tl.linesequencenumber AS line_no,
    BUILTIN.DF(tl.item) AS item,
    tl.custcol_atlas_wd_promise_date AS promise_date,
    tl.custcol1 AS line_due_date,
    tl.quantity AS qty_ordered,
    tl.quantityshiprecv AS qty_received,
    (tl.quantity - tl.quantityshiprecv) AS qty_open,
    COALESCE(tl.quantityonshipments, 0) AS qty_on_shipments
FROM transaction t
JOIN transactionLine tl
    ON tl.transaction = t.id
LEFT JOIN Vendor v
    ON v.id = t.entity
WHERE t.type = 'PurchOrd'
    AND t.trandate < (SYSDATE - %d)
    AND t.status NOT IN ('G', 'H')
    AND tl.mainline = 'F'
    AND tl.item IS NOT NULL
    AND (tl.quantity - tl.quantityshiprecv) > 0
    AND tl.isclosed = 'F'%s
ORDER BY t.id DESC, tl.linesequencenumber`, daysOld, vendorClause)
}
