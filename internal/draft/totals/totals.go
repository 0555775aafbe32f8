// Package totals is the pure totals engine for invoice drafts. It is
// deterministic, has no side effects, and never fails: malformed
// numeric inputs are clamped instead of rejected.
package totals

import (
	"math"

	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
)

// epsilon nudges values off the binary-float truncation boundary at
// exactly .005 before rounding.
const epsilon = 2.220446049250313e-16

// LineBreakdown is the per-line arithmetic shared by the aggregate
// totals and the rendered preview, so both always agree.
type LineBreakdown struct {
	// Amount is quantity times unit price, pre-discount.
	Amount float64
	// Discount is the effective discount, clamped to [0, Amount].
	Discount float64
	// TaxBase is the amount tax was computed against.
	TaxBase float64
	// Tax is the line's tax, never negative.
	Tax float64
	// Total is the displayed line total: tax- and discount-adjusted.
	Total float64
}

// Line computes one item's breakdown under the given discount timing.
// Before-tax timing taxes the discounted base; after-tax taxes the full
// line amount and subtracts the discount after tax.
func Line(item domain.LineItem, timing domain.DiscountTiming) LineBreakdown {
	qty := math.Max(item.Quantity.Float(), 0)
	price := math.Max(item.UnitPrice.Float(), 0)
	amount := qty * price

	var discount float64
	if item.DiscountType == domain.DiscountFixed {
		discount = item.DiscountValue.Float()
	} else {
		discount = amount * item.DiscountValue.Float() / 100
	}
	discount = math.Min(math.Max(discount, 0), amount)

	base := amount
	if timing != domain.DiscountAfterTax {
		base = math.Max(amount-discount, 0)
	}

	tax := math.Max(base*item.TaxRatePercent.Float()/100, 0)

	total := base + tax
	if timing == domain.DiscountAfterTax {
		total = math.Max(amount+tax-discount, 0)
	}

	return LineBreakdown{
		Amount:   amount,
		Discount: discount,
		TaxBase:  base,
		Tax:      tax,
		Total:    total,
	}
}

// Compute maps an invoice to its four aggregate totals. Rounding to
// cents happens once at the end, never mid-computation, keeping the sum
// of per-line figures within a cent of the displayed aggregates.
func Compute(inv domain.Invoice) domain.CalculatedTotals {
	var subtotal, discountTotal, taxTotal, baseTotal float64
	for _, item := range inv.Items {
		lb := Line(item, inv.DiscountTiming)
		subtotal += lb.Amount
		discountTotal += lb.Discount
		taxTotal += lb.Tax
		baseTotal += lb.TaxBase
	}

	var grand float64
	if inv.DiscountTiming == domain.DiscountAfterTax {
		grand = subtotal + taxTotal - discountTotal
	} else {
		grand = baseTotal + taxTotal
	}

	return domain.CalculatedTotals{
		Subtotal:      RoundToCents(subtotal),
		DiscountTotal: RoundToCents(discountTotal),
		TaxTotal:      RoundToCents(taxTotal),
		GrandTotal:    RoundToCents(grand),
	}
}

// RoundToCents rounds half away from zero at cent granularity.
func RoundToCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round((v+epsilon)*100) / 100
}
