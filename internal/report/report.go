// Package report computes the yearly views exported from billing_records.
package report

import (
	"sort"

	"github.com/diewo77/jewelry-billing/internal/models"
	"github.com/shopspring/decimal"
)

// TopCustomerLimit is how many customers the Top Customers view keeps.
const TopCustomerLimit = 10

// MonthlySummary aggregates one calendar month across all years in the table.
type MonthlySummary struct {
	Month             int
	TotalAmount       decimal.Decimal
	TotalTransactions int
}

type CustomerTotal struct {
	CustomerName string
	TotalAmount  decimal.Decimal
}

// Report is the three views written to the yearly workbook.
type Report struct {
	Records      []models.BillingRecord
	Monthly      []MonthlySummary
	TopCustomers []CustomerTotal
}

// New builds every view from records, which are kept as given.
func New(records []models.BillingRecord) *Report {
	return &Report{
		Records:      records,
		Monthly:      SummarizeByMonth(records),
		TopCustomers: TopCustomers(records, TopCustomerLimit),
	}
}

// Empty reports whether there is nothing to export.
func (r *Report) Empty() bool { return r == nil || len(r.Records) == 0 }

// SummarizeByMonth groups records by calendar month (1-12) and returns one
// entry per month present, in month order.
func SummarizeByMonth(records []models.BillingRecord) []MonthlySummary {
	var byMonth [13]*MonthlySummary
	for i := range records {
		m := records[i].Month()
		if byMonth[m] == nil {
			byMonth[m] = &MonthlySummary{Month: m, TotalAmount: decimal.Zero}
		}
		byMonth[m].TotalAmount = byMonth[m].TotalAmount.Add(records[i].TotalAmount)
		byMonth[m].TotalTransactions++
	}
	out := make([]MonthlySummary, 0, 12)
	for m := 1; m <= 12; m++ {
		if byMonth[m] != nil {
			out = append(out, *byMonth[m])
		}
	}
	return out
}

// TopCustomers sums TotalAmount per customer name and returns the n largest,
// highest first. Equal totals are ordered by name.
func TopCustomers(records []models.BillingRecord, n int) []CustomerTotal {
	totals := make(map[string]decimal.Decimal)
	for i := range records {
		name := records[i].CustomerName
		totals[name] = totals[name].Add(records[i].TotalAmount)
	}
	out := make([]CustomerTotal, 0, len(totals))
	for name, total := range totals {
		out = append(out, CustomerTotal{CustomerName: name, TotalAmount: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalAmount.Cmp(out[j].TotalAmount); c != 0 {
			return c > 0
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
