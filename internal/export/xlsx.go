package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX mirrors a cleaned product CSV into an XLSX workbook next to it,
// for reviewers who annotate the listing in a spreadsheet.
func WriteXLSX(csvPath, xlsxPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	records, err := csv.NewReader(f).ReadAll()
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	wb := excelize.NewFile()
	const sheet = "Products"
	index, err := wb.NewSheet(sheet)
	if err != nil {
		return err
	}
	wb.SetActiveSheet(index)
	_ = wb.DeleteSheet("Sheet1")

	for r, record := range records {
		for col, value := range record {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+1)
			_ = wb.SetCellValue(sheet, cell, value)
		}
	}

	// Widen the name columns
	_ = wb.SetColWidth(sheet, "A", "A", 36)
	_ = wb.SetColWidth(sheet, "B", "B", 28)
	_ = wb.SetColWidth(sheet, "C", "C", 12)

	if err := wb.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"path", xlsxPath,
		"rows", len(records)-1,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
