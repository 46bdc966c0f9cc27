package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMode is how a bill was settled.
type PaymentMode string

const (
	PaymentCash         PaymentMode = "Cash"
	PaymentCard         PaymentMode = "Card"
	PaymentUPI          PaymentMode = "UPI"
	PaymentBankTransfer PaymentMode = "Bank Transfer"
)

// PaymentModes lists every accepted payment mode in display order.
var PaymentModes = []PaymentMode{PaymentCash, PaymentCard, PaymentUPI, PaymentBankTransfer}

var ErrUnknownPaymentMode = errors.New("unknown_payment_mode")

// ParsePaymentMode matches s against the known modes, ignoring case and
// surrounding whitespace.
func ParsePaymentMode(s string) (PaymentMode, error) {
	s = strings.TrimSpace(s)
	for _, m := range PaymentModes {
		if strings.EqualFold(s, string(m)) {
			return m, nil
		}
	}
	return "", ErrUnknownPaymentMode
}

// Valid reports whether m is one of PaymentModes.
func (m PaymentMode) Valid() bool {
	for _, known := range PaymentModes {
		if m == known {
			return true
		}
	}
	return false
}

// BillingRecord is one jewelry sale as stored in billing_records.
// BillNo is the natural key; ID is a surrogate.
type BillingRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	BillNo        string    `gorm:"size:50;uniqueIndex;not null" json:"bill_no"`
	Date          time.Time `gorm:"type:date;index;not null" json:"date"`
	CustomerName  string    `gorm:"size:100;not null" json:"customer_name"`
	ContactNumber *string   `gorm:"size:20" json:"contact_number,omitempty"`
	ItemName      string    `gorm:"size:100;not null" json:"item_name"`
	Quantity      int       `gorm:"not null" json:"quantity"`

	WeightGrams   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"weight_grams"`
	RatePerGram   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"rate_per_gram"`
	MakingCharges decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"making_charges"`
	// TotalAmount is kept as supplied by the source sheet, even when it
	// disagrees with ComputedTotal.
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	PaymentMode PaymentMode `gorm:"size:50;not null" json:"payment_mode"`
}

func (BillingRecord) TableName() string { return "billing_records" }

// ComputedTotal returns quantity × weight × rate + making charges, rounded to paise.
func (r *BillingRecord) ComputedTotal() decimal.Decimal {
	return r.WeightGrams.
		Mul(r.RatePerGram).
		Mul(decimal.NewFromInt(int64(r.Quantity))).
		Add(r.MakingCharges).
		Round(2)
}

// Month returns the calendar month (1-12) of the bill date.
func (r *BillingRecord) Month() int {
	return int(r.Date.Month())
}

// Contact returns the contact number or "" when it is missing.
func (r *BillingRecord) Contact() string {
	if r.ContactNumber == nil {
		return ""
	}
	return *r.ContactNumber
}
