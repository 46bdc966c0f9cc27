package workbook

import (
	"fmt"

	"github.com/diewo77/jewelry-billing/internal/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the yearly report.
const (
	SheetAllRecords     = "All Records"
	SheetMonthlySummary = "Monthly Summary"
	SheetTopCustomers   = "Top Customers"
)

// DefaultReportName is the file name used when the operator gives none.
func DefaultReportName(year int) string {
	return fmt.Sprintf("Jewelry_Billing_Yearly_%d.xlsx", year)
}

// WriteReport writes the three report views to path.
func WriteReport(path string, rep *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetAllRecords); err != nil {
		return err
	}
	if err := writeAllRecords(f, rep); err != nil {
		return fmt.Errorf("%s: %w", SheetAllRecords, err)
	}
	if _, err := f.NewSheet(SheetMonthlySummary); err != nil {
		return err
	}
	if err := writeMonthlySummary(f, rep); err != nil {
		return fmt.Errorf("%s: %w", SheetMonthlySummary, err)
	}
	if _, err := f.NewSheet(SheetTopCustomers); err != nil {
		return err
	}
	if err := writeTopCustomers(f, rep); err != nil {
		return fmt.Errorf("%s: %w", SheetTopCustomers, err)
	}
	f.SetActiveSheet(0)
	return save(f, path)
}

func writeAllRecords(f *excelize.File, rep *report.Report) error {
	header := []any{
		"id", "bill_no", "date", "customer_name", "contact_number", "item_name",
		"quantity", "weight_grams", "rate_per_gram", "making_charges",
		"total_amount", "payment_mode", "created_at",
	}
	if err := writeHeader(f, SheetAllRecords, header); err != nil {
		return err
	}
	for i := range rep.Records {
		r := &rep.Records[i]
		row := []any{
			r.ID,
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
			r.CreatedAt.Format(timestampLayout),
		}
		if err := setRow(f, SheetAllRecords, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySummary(f *excelize.File, rep *report.Report) error {
	if err := writeHeader(f, SheetMonthlySummary, []any{"month", "total_amount", "total_transactions"}); err != nil {
		return err
	}
	for i, m := range rep.Monthly {
		row := []any{m.Month, m.TotalAmount.InexactFloat64(), m.TotalTransactions}
		if err := setRow(f, SheetMonthlySummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTopCustomers(f *excelize.File, rep *report.Report) error {
	if err := writeHeader(f, SheetTopCustomers, []any{"customer_name", "total_amount"}); err != nil {
		return err
	}
	for i, c := range rep.TopCustomers {
		row := []any{c.CustomerName, c.TotalAmount.InexactFloat64()}
		if err := setRow(f, SheetTopCustomers, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
