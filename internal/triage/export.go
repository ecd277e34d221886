package triage

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportAuditXLSX renders the audit records as an XLSX workbook and returns
// the file bytes.
func ExportAuditXLSX(records []Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no audit log data to export")
	}

	f := excelize.NewFile()
	const sheet = "Audit"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Filename",
		"Date",
		"Decision (Yes/No)",
		"AI Reasoning",
		"Moved To",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Filename)
		write(2, r.Timestamp.Format(time.RFC3339))
		write(3, string(r.Decision))
		write(4, r.Reason)
		write(5, r.MovedTo)
		write(6, r.Err)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // filename
	_ = f.SetColWidth(sheet, "B", "B", 22) // date
	_ = f.SetColWidth(sheet, "C", "C", 16) // decision
	_ = f.SetColWidth(sheet, "D", "D", 60) // reasoning
	_ = f.SetColWidth(sheet, "E", "F", 24)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
