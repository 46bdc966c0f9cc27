package workbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	defaultSheet    = "Sheet1"
)

// WriteMonthly writes records to path as a single-sheet monthly workbook with
// the Columns header. A missing contact number is left as an empty cell.
func WriteMonthly(path string, records []models.BillingRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Billing"
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return err
	}
	header := make([]any, 0, ColumnCount)
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := writeHeader(f, sheet, header); err != nil {
		return err
	}
	for i := range records {
		r := &records[i]
		row := []any{
			r.BillNo,
			r.Date.Format(dateLayout),
			r.CustomerName,
			r.Contact(),
			r.ItemName,
			r.Quantity,
			r.WeightGrams.InexactFloat64(),
			r.RatePerGram.InexactFloat64(),
			r.MakingCharges.InexactFloat64(),
			r.TotalAmount.InexactFloat64(),
			string(r.PaymentMode),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return save(f, path)
}

func writeHeader(f *excelize.File, sheet string, header []any) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E0E0E0"}},
	})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 16)
}

func setRow(f *excelize.File, sheet string, line int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func save(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
