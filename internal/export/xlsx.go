package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the four tables as one workbook, one sheet per table,
// same columns as the CSV files.
func (w *Writer) WriteXLSX(path string, t Tables) error {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	grids := t.grids()
	if err := f.SetSheetName("Sheet1", grids[0].Name); err != nil {
		return fmt.Errorf("xlsx sheet: %w", err)
	}
	for _, g := range grids[1:] {
		if _, err := f.NewSheet(g.Name); err != nil {
			return fmt.Errorf("xlsx sheet: %w", err)
		}
	}

	for _, g := range grids {
		for col, h := range g.Header {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			_ = f.SetCellValue(g.Name, cell, h)
		}
		for r, row := range g.Rows {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
				_ = f.SetCellValue(g.Name, cell, v)
			}
		}
	}

	// Widen the free-text columns
	_ = f.SetColWidth(TableAdresse, "B", "C", 42)
	_ = f.SetColWidth(TableArrete, "D", "D", 48)
	_ = f.SetColWidth(TableArrete, "J", "K", 52)
	_ = f.SetColWidth(TableNotifie, "B", "F", 32)

	if idx, err := f.GetSheetIndex(grids[0].Name); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	w.Logger.Info("export.xlsx.ok",
		"path", path,
		"rows", t.Rows(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
