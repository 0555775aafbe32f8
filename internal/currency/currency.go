// Package currency formats monetary values for the supported currency
// codes. Formatting never fails: codes the formatter cannot resolve
// fall back to plain fixed-2-decimal rendering.
package currency

import (
	"math"
	"strconv"
	"strings"

	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []domain.CurrencyCode{
	domain.CurrencyUSD,
	domain.CurrencyEUR,
	domain.CurrencyGBP,
	domain.CurrencyCAD,
	domain.CurrencyAUD,
	domain.CurrencyJPY,
	domain.CurrencyNGN,
	domain.CurrencyGHS,
	domain.CurrencyZAR,
}

// Supported lists the currency codes the editor offers.
func Supported() []domain.CurrencyCode {
	out := make([]domain.CurrencyCode, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code is one of the offered currencies.
func IsSupported(code domain.CurrencyCode) bool {
	for _, c := range supported {
		if c == code {
			return true
		}
	}
	return false
}

var printer = message.NewPrinter(language.English)

// Format renders amount in the given currency. The code is capability
// checked up front; anything the currency tables cannot resolve falls
// back to a bare fixed-point number instead of failing the render.
func Format(amount float64, code domain.CurrencyCode) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}

	unit, err := xcurrency.ParseISO(strings.ToUpper(strings.TrimSpace(string(code))))
	if err != nil {
		return strconv.FormatFloat(amount, 'f', 2, 64)
	}

	return printer.Sprintf("%v", xcurrency.NarrowSymbol(unit.Amount(amount)))
}
