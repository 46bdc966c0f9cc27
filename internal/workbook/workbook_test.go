package workbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/diewo77/jewelry-billing/internal/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRecords() []models.BillingRecord {
	phone := "+91 9876543210"
	return []models.BillingRecord{
		{
			BillNo:        "JB202401001",
			Date:          time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
			CustomerName:  "Priya Shah",
			ContactNumber: &phone,
			ItemName:      "Gold Necklace",
			Quantity:      2,
			WeightGrams:   decimal.RequireFromString("10.5"),
			RatePerGram:   decimal.RequireFromString("5800"),
			MakingCharges: decimal.RequireFromString("5250.75"),
			TotalAmount:   decimal.RequireFromString("127050.75"),
			PaymentMode:   models.PaymentUPI,
		},
		{
			BillNo:        "JB202401002",
			Date:          time.Date(2024, time.January, 9, 0, 0, 0, 0, time.UTC),
			CustomerName:  "Amit Kumar",
			ItemName:      "Silver Anklet",
			Quantity:      1,
			WeightGrams:   decimal.RequireFromString("40"),
			RatePerGram:   decimal.RequireFromString("75.25"),
			MakingCharges: decimal.RequireFromString("2400"),
			TotalAmount:   decimal.RequireFromString("5410"),
			PaymentMode:   models.PaymentBankTransfer,
		},
	}
}

func TestWriteMonthlyThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "January_2024.xlsx")
	require.NoError(t, WriteMonthly(path, sampleRecords()))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "January_2024.xlsx", first.File)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "JB202401001", first.BillNo())
	assert.Equal(t, "2024-01-05", first.Cells[ColDate])
	assert.Equal(t, "+91 9876543210", first.Cells[ColContactNumber])
	assert.Equal(t, "2", first.Cells[ColQuantity])
	assert.Equal(t, "10.5", first.Cells[ColWeightGrams])
	assert.Equal(t, "127050.75", first.Cells[ColTotalAmount])
	assert.Equal(t, "UPI", first.Cells[ColPaymentMode])

	second := rows[1]
	assert.Equal(t, "", second.Cells[ColContactNumber])
	assert.Equal(t, "Bank Transfer", second.Cells[ColPaymentMode])
	assert.Equal(t, 3, second.Line)
}

func TestReadFileHeaderOrderAndExtraColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shuffled.xlsx")
	f := excelize.NewFile()
	header := []any{"Notes"}
	for i := len(Columns) - 1; i >= 0; i-- {
		header = append(header, " "+Columns[i]+" ")
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	// reversed schema order after the extra Notes column
	row := []any{"ignored", "Cash", "1000", "100", "5000", "2", "1", "Ring", "", "Ravi", "2024-03-01", "JB2024030001"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	blank := []any{"", "", ""}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &blank))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "JB2024030001", rows[0].BillNo())
	assert.Equal(t, "Ravi", rows[0].Cells[ColCustomerName])
	assert.Equal(t, "Cash", rows[0].Cells[ColPaymentMode])
	assert.Equal(t, "1", rows[0].Cells[ColQuantity])
}

func TestReadFileMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	f := excelize.NewFile()
	header := []any{"Bill_No", "Date", "Customer_Name"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := ReadFile(path)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, path, fe.Path)
	assert.True(t, errors.Is(err, ErrMissingColumns), err.Error())
	assert.Contains(t, err.Error(), "Payment_Mode")
}

func TestReadFileNotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ReadFile(path)
	var fe *FileError
	require.ErrorAs(t, err, &fe)
}

func TestWriteReport(t *testing.T) {
	records := sampleRecords()
	records[0].ID, records[1].ID = 1, 2
	path := filepath.Join(t.TempDir(), "out", DefaultReportName(2024))
	require.NoError(t, WriteReport(path, report.New(records)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetAllRecords, SheetMonthlySummary, SheetTopCustomers}, f.GetSheetList())

	all, err := f.GetRows(SheetAllRecords)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bill_no", all[0][1])
	assert.Equal(t, "JB202401001", all[1][1])

	monthly, err := f.GetRows(SheetMonthlySummary)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, []string{"month", "total_amount", "total_transactions"}, monthly[0])
	assert.Equal(t, "1", monthly[1][0])
	assert.Equal(t, "2", monthly[1][2])

	top, err := f.GetRows(SheetTopCustomers)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Priya Shah", top[1][0])
	assert.Equal(t, "Amit Kumar", top[2][0])
}

func TestDefaultReportName(t *testing.T) {
	assert.Equal(t, "Jewelry_Billing_Yearly_2025.xlsx", DefaultReportName(2025))
}
