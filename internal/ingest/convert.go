package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/diewo77/jewelry-billing/internal/workbook"
	"github.com/diewo77/jewelry-billing/validation"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
}

var errNotIntegral = errors.New("not_integral")

// RowError lists why a row could not become a BillingRecord.
type RowError struct {
	File       string
	Line       int
	BillNo     string
	Violations validation.Violations
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d bill %q: %s", e.File, e.Line, e.BillNo, e.Violations.Error())
}

// ToRecord converts a cleaned row into a typed record. The total amount is
// taken as written, never recomputed.
func ToRecord(r workbook.Row) (*models.BillingRecord, error) {
	v := validation.Violations{}
	rec := &models.BillingRecord{
		BillNo:       r.Cells[workbook.ColBillNo],
		CustomerName: r.Cells[workbook.ColCustomerName],
		ItemName:     r.Cells[workbook.ColItemName],
	}
	validation.Required("bill_no", rec.BillNo, v)
	validation.Required("customer_name", rec.CustomerName, v)
	validation.Required("item_name", rec.ItemName, v)

	if c := r.Cells[workbook.ColContactNumber]; c != "" {
		rec.ContactNumber = &c
	}

	if raw := r.Cells[workbook.ColDate]; raw == "" {
		v["date"] = "required"
	} else if d, err := ParseDate(raw); err != nil {
		v["date"] = "invalid_date"
	} else {
		rec.Date = d
	}

	if raw := r.Cells[workbook.ColQuantity]; raw == "" {
		v["quantity"] = "required"
	} else if q, err := parseQuantity(raw); err != nil {
		v["quantity"] = "invalid_number"
	} else {
		rec.Quantity = q
		validation.MinInt("quantity", q, 1, v)
	}

	if d, ok := decimalField("weight_grams", r.Cells[workbook.ColWeightGrams], v); ok {
		rec.WeightGrams = d
		validation.PositiveDecimal("weight_grams", d, v)
	}
	if d, ok := decimalField("rate_per_gram", r.Cells[workbook.ColRatePerGram], v); ok {
		rec.RatePerGram = d
		validation.PositiveDecimal("rate_per_gram", d, v)
	}
	if d, ok := decimalField("making_charges", r.Cells[workbook.ColMakingCharges], v); ok {
		rec.MakingCharges = d
		validation.NonNegativeDecimal("making_charges", d, v)
	}
	if d, ok := decimalField("total_amount", r.Cells[workbook.ColTotalAmount], v); ok {
		rec.TotalAmount = d
	}

	pm, err := models.ParsePaymentMode(r.Cells[workbook.ColPaymentMode])
	validation.OneOf("payment_mode", err == nil, v)
	rec.PaymentMode = pm

	if !v.Empty() {
		return nil, &RowError{File: r.File, Line: r.Line, BillNo: rec.BillNo, Violations: v}
	}
	return rec, nil
}

// ParseDate accepts ISO dates and timestamps, day-first dates and Excel serial
// numbers. The result is midnight UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return midnight(t), nil
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return midnight(t), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseQuantity accepts "2" as well as "2.0", which spreadsheets often store.
func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, errNotIntegral
	}
	return int(f), nil
}

func decimalField(field, raw string, v validation.Violations) (decimal.Decimal, bool) {
	if raw == "" {
		v[field] = "required"
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v[field] = "invalid_number"
		return decimal.Zero, false
	}
	return d, true
}
