package totals

import (
	"math"
	"testing"

	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
	"github.com/stretchr/testify/assert"
)

func invoiceWith(timing domain.DiscountTiming, items ...domain.LineItem) domain.Invoice {
	return domain.Invoice{
		Currency:       domain.CurrencyUSD,
		DiscountTiming: timing,
		Items:          items,
	}
}

func TestCompute_BeforeTaxScenario(t *testing.T) {
	// One item, qty=2, unitPrice=100, tax=10%, discount 10% percent.
	inv := invoiceWith(domain.DiscountBeforeTax, domain.LineItem{
		ID:             "item_1",
		Quantity:       2,
		UnitPrice:      100,
		TaxRatePercent: 10,
		DiscountType:   domain.DiscountPercent,
		DiscountValue:  10,
	})

	got := Compute(inv)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 20.0, got.DiscountTotal)
	assert.Equal(t, 18.0, got.TaxTotal)
	assert.Equal(t, 198.0, got.GrandTotal)
}

func TestCompute_AfterTaxScenario(t *testing.T) {
	// Same item, after-tax: tax is computed on the undiscounted line.
	inv := invoiceWith(domain.DiscountAfterTax, domain.LineItem{
		ID:             "item_1",
		Quantity:       2,
		UnitPrice:      100,
		TaxRatePercent: 10,
		DiscountType:   domain.DiscountPercent,
		DiscountValue:  10,
	})

	got := Compute(inv)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 20.0, got.DiscountTotal)
	assert.Equal(t, 20.0, got.TaxTotal)
	assert.Equal(t, 200.0, got.GrandTotal)
}

func TestCompute_FixedDiscountClampsToLineAmount(t *testing.T) {
	inv := invoiceWith(domain.DiscountBeforeTax, domain.LineItem{
		ID:             "item_1",
		Quantity:       2,
		UnitPrice:      100,
		TaxRatePercent: 10,
		DiscountType:   domain.DiscountFixed,
		DiscountValue:  250,
	})

	got := Compute(inv)

	assert.Equal(t, 200.0, got.Subtotal)
	assert.Equal(t, 200.0, got.DiscountTotal, "discount clamps to the line amount")
	assert.Equal(t, 0.0, got.TaxTotal, "tax base is zero after full discount")
	assert.Equal(t, 0.0, got.GrandTotal)
}

func TestCompute_SubtotalAndDiscountInvariantUnderTimingSwitch(t *testing.T) {
	items := []domain.LineItem{
		{ID: "a", Quantity: 3, UnitPrice: 19.99, TaxRatePercent: 7.5, DiscountType: domain.DiscountPercent, DiscountValue: 15},
		{ID: "b", Quantity: 1, UnitPrice: 250, TaxRatePercent: 20, DiscountType: domain.DiscountFixed, DiscountValue: 40},
	}

	before := Compute(invoiceWith(domain.DiscountBeforeTax, items...))
	after := Compute(invoiceWith(domain.DiscountAfterTax, items...))

	assert.Equal(t, before.Subtotal, after.Subtotal)
	assert.Equal(t, before.DiscountTotal, after.DiscountTotal)
	assert.NotEqual(t, before.TaxTotal, after.TaxTotal)
}

func TestLine_DiscountBounds(t *testing.T) {
	tests := []struct {
		name         string
		item         domain.LineItem
		wantDiscount float64
	}{
		{
			name:         "percent over 100 clamps to line",
			item:         domain.LineItem{Quantity: 1, UnitPrice: 50, DiscountType: domain.DiscountPercent, DiscountValue: 250},
			wantDiscount: 50,
		},
		{
			name:         "negative discount clamps to zero",
			item:         domain.LineItem{Quantity: 1, UnitPrice: 50, DiscountType: domain.DiscountFixed, DiscountValue: -10},
			wantDiscount: 0,
		},
		{
			name:         "fixed discount within line",
			item:         domain.LineItem{Quantity: 2, UnitPrice: 50, DiscountType: domain.DiscountFixed, DiscountValue: 30},
			wantDiscount: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := Line(tt.item, domain.DiscountBeforeTax)
			assert.Equal(t, tt.wantDiscount, lb.Discount)
			assert.GreaterOrEqual(t, lb.Discount, 0.0)
			assert.LessOrEqual(t, lb.Discount, lb.Amount)
		})
	}
}

func TestLine_TotalIsTaxAndDiscountAdjusted(t *testing.T) {
	item := domain.LineItem{
		Quantity:       2,
		UnitPrice:      100,
		TaxRatePercent: 10,
		DiscountType:   domain.DiscountPercent,
		DiscountValue:  10,
	}

	before := Line(item, domain.DiscountBeforeTax)
	assert.Equal(t, 198.0, before.Total, "discounted base plus its tax")

	after := Line(item, domain.DiscountAfterTax)
	assert.Equal(t, 200.0, after.Total, "full line plus tax, discount subtracted last")

	noTax := Line(domain.LineItem{Quantity: 1, UnitPrice: 100}, domain.DiscountBeforeTax)
	assert.Equal(t, noTax.Amount, noTax.Total)
}

func TestCompute_MalformedInputsNeverFail(t *testing.T) {
	inv := invoiceWith(domain.DiscountBeforeTax,
		domain.LineItem{Quantity: -3, UnitPrice: 100, TaxRatePercent: 10},
		domain.LineItem{Quantity: domain.Numeric(math.NaN()), UnitPrice: 50},
		domain.LineItem{Quantity: 1, UnitPrice: -20, TaxRatePercent: -5},
	)

	got := Compute(inv)

	assert.Equal(t, 0.0, got.Subtotal)
	assert.Equal(t, 0.0, got.DiscountTotal)
	assert.Equal(t, 0.0, got.TaxTotal)
	assert.Equal(t, 0.0, got.GrandTotal)
}

func TestRoundToCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{1.004, 1.0},
		{0, 0},
		{199.999, 200.0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToCents(tt.in), "RoundToCents(%v)", tt.in)
	}
}

func TestCompute_RoundsOnceAtTheEnd(t *testing.T) {
	// Three lines of 0.333 each: per-line rounding would give 1.00,
	// single final rounding gives 1.00 on subtotal but keeps the
	// unrounded sum for tax.
	inv := invoiceWith(domain.DiscountBeforeTax,
		domain.LineItem{Quantity: 1, UnitPrice: 0.333, TaxRatePercent: 10},
		domain.LineItem{Quantity: 1, UnitPrice: 0.333, TaxRatePercent: 10},
		domain.LineItem{Quantity: 1, UnitPrice: 0.333, TaxRatePercent: 10},
	)

	got := Compute(inv)

	assert.Equal(t, 1.0, got.Subtotal)
	assert.Equal(t, 0.1, got.TaxTotal)
	assert.Equal(t, 1.1, got.GrandTotal)
}
