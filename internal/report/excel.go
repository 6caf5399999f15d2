package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/apachepressure/chaser/internal/analysis"
)

const buyerSheet = "Missing Due Dates"

// WriteBuyerWorkbook writes an Excel workbook listing every PO line that
// lacks a parseable due date, one row per line, so a buyer can work
// through the backlog and fill the dates in. POs without missing lines
// are omitted. Returns the number of rows written.
func WriteBuyerWorkbook(path string, pos []analysis.AnalyzedPO) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(buyerSheet); err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("remove default sheet: %w", err)
	}

	headers := []string{"PO Number", "PO Date", "Vendor", "Line", "Item", "State"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(buyerSheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err == nil {
		f.SetCellStyle(buyerSheet, "A1", "F1", headerStyle)
	}

	row := 2
	for _, po := range pos {
		for _, ref := range po.MissingDueDateLines {
			f.SetCellValue(buyerSheet, fmt.Sprintf("A%d", row), po.PONumber)
			f.SetCellValue(buyerSheet, fmt.Sprintf("B%d", row), po.PODate)
			f.SetCellValue(buyerSheet, fmt.Sprintf("C%d", row), po.Vendor)
			f.SetCellValue(buyerSheet, fmt.Sprintf("D%d", row), ref.LineNo)
			f.SetCellValue(buyerSheet, fmt.Sprintf("E%d", row), ref.Item)
			f.SetCellValue(buyerSheet, fmt.Sprintf("F%d", row), string(po.State))
			row++
		}
	}

	f.SetColWidth(buyerSheet, "A", "A", 14)
	f.SetColWidth(buyerSheet, "C", "C", 32)
	f.SetColWidth(buyerSheet, "E", "E", 40)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create workbook dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}

	return row - 2, nil
}
