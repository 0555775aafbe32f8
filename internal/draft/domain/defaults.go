package domain

import (
	"fmt"
	"time"
)

// DefaultThemeColor is the accent color applied to fresh drafts.
const DefaultThemeColor = "#2563eb"

const isoDate = "2006-01-02"

// DefaultInvoice builds a fresh draft: a generated invoice number,
// issue date of today, due date 30 days out, USD, and a single empty
// line item so the editor never starts with an empty table.
func DefaultInvoice(now time.Time, gen IDGenerator) Invoice {
	millis := now.UnixMilli()
	number := fmt.Sprintf("INV-%06d", millis%1_000_000)

	issue := now.Format(isoDate)
	due := now.AddDate(0, 0, 30).Format(isoDate)

	return Invoice{
		Number:         number,
		CreatedAt:      now.Format(time.RFC3339),
		IssueDate:      issue,
		DueDate:        due,
		Currency:       CurrencyUSD,
		ThemeColor:     DefaultThemeColor,
		Business:       BusinessInfo{},
		Customer:       CustomerInfo{},
		Items:          []LineItem{NewLineItem(gen)},
		DiscountTiming: DiscountBeforeTax,
		Payment:        PaymentInfo{},
	}
}

// NewLineItem builds an empty row: quantity 1, zero amounts, percent
// discount.
func NewLineItem(gen IDGenerator) LineItem {
	return LineItem{
		ID:           gen("item"),
		Quantity:     1,
		DiscountType: DiscountPercent,
	}
}

// DefaultPreferences is the first-run preferences record.
func DefaultPreferences() Preferences {
	return Preferences{
		SavedCustomers: []CustomerInfo{},
		LastCurrency:   CurrencyUSD,
	}
}
