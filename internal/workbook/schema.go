// Package workbook reads and writes billing spreadsheets with excelize.
package workbook

import (
	"errors"
	"fmt"
)

// Column positions inside Row.Cells.
const (
	ColBillNo = iota
	ColDate
	ColCustomerName
	ColContactNumber
	ColItemName
	ColQuantity
	ColWeightGrams
	ColRatePerGram
	ColMakingCharges
	ColTotalAmount
	ColPaymentMode

	ColumnCount
)

// Columns is the header every monthly billing sheet carries.
var Columns = [ColumnCount]string{
	"Bill_No",
	"Date",
	"Customer_Name",
	"Contact_Number",
	"Item_Name",
	"Quantity",
	"Weight_Grams",
	"Rate_Per_Gram",
	"Making_Charges",
	"Total_Amount",
	"Payment_Mode",
}

var (
	ErrMissingColumns = errors.New("missing_columns")
	ErrNoSheet        = errors.New("no_sheet")
)

// Row is one data line of a monthly sheet, cells trimmed but not typed.
type Row struct {
	Cells [ColumnCount]string
	// File is the base name of the source workbook, Line the 1-based sheet row.
	File string
	Line int
}

func (r Row) BillNo() string { return r.Cells[ColBillNo] }

// Blank reports whether every cell is empty.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if c != "" {
			return false
		}
	}
	return true
}

// Where renders the row position for log lines.
func (r Row) Where() string { return fmt.Sprintf("%s:%d", r.File, r.Line) }

// FileError reports a workbook that could not be used at all.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }
