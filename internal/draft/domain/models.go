// Package domain contains the invoice draft data model.
package domain

// CurrencyCode is an ISO 4217 currency code supported by the editor.
type CurrencyCode string

const (
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyGBP CurrencyCode = "GBP"
	CurrencyCAD CurrencyCode = "CAD"
	CurrencyAUD CurrencyCode = "AUD"
	CurrencyJPY CurrencyCode = "JPY"
	CurrencyNGN CurrencyCode = "NGN"
	CurrencyGHS CurrencyCode = "GHS"
	CurrencyZAR CurrencyCode = "ZAR"
)

// DiscountType selects how a line item's discount value is interpreted.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// DiscountTiming selects whether the discount is subtracted before or
// after tax is computed. Any unrecognized value behaves as before-tax.
type DiscountTiming string

const (
	DiscountBeforeTax DiscountTiming = "before-tax"
	DiscountAfterTax  DiscountTiming = "after-tax"
)

// BusinessInfo is the issuing business block. LogoDataURL is an opaque
// self-contained image string; it is stored and echoed, never parsed.
type BusinessInfo struct {
	Name         string `json:"name"`
	LogoDataURL  string `json:"logoDataUrl,omitempty"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// CustomerInfo is the bill-to block. ID is assigned only when the
// customer is saved to preferences.
type CustomerInfo struct {
	ID           string `json:"id,omitempty"`
	DisplayName  string `json:"displayName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Reference    string `json:"reference,omitempty"`
}

// LineItem is one billable row. Item ids are unique within a draft and
// stable across reorders and edits.
type LineItem struct {
	ID             string       `json:"id"`
	Description    string       `json:"description"`
	Quantity       Numeric      `json:"quantity"`
	UnitPrice      Numeric      `json:"unitPrice"`
	TaxRatePercent Numeric      `json:"taxRatePercent"`
	DiscountType   DiscountType `json:"discountType"`
	DiscountValue  Numeric      `json:"discountValue"`
}

// PaymentInfo is the free-text payment and notes block.
type PaymentInfo struct {
	Terms              string `json:"terms"`
	Methods            string `json:"methods"`
	BankDetails        string `json:"bankDetails"`
	Notes              string `json:"notes"`
	TermsAndConditions string `json:"termsAndConditions"`
}

// Invoice is the draft document being edited.
type Invoice struct {
	Number         string         `json:"number"`
	CreatedAt      string         `json:"createdAt"`
	IssueDate      string         `json:"issueDate"`
	DueDate        string         `json:"dueDate"`
	Currency       CurrencyCode   `json:"currency"`
	ThemeColor     string         `json:"themeColor"`
	Business       BusinessInfo   `json:"business"`
	Customer       CustomerInfo   `json:"customer"`
	Items          []LineItem     `json:"items"`
	DiscountTiming DiscountTiming `json:"discountTiming"`
	Payment        PaymentInfo    `json:"payment"`
}

// Clone returns a copy of the invoice that shares no slices with the
// receiver.
func (i Invoice) Clone() Invoice {
	out := i
	out.Items = make([]LineItem, len(i.Items))
	copy(out.Items, i.Items)
	return out
}

// CalculatedTotals is the derived output of the totals engine. All
// values are rounded to cents.
type CalculatedTotals struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discountTotal"`
	TaxTotal      float64 `json:"taxTotal"`
	GrandTotal    float64 `json:"grandTotal"`
}

// Preferences holds cross-draft user settings. SavedCustomers is kept
// most-recently-saved first.
type Preferences struct {
	SavedCustomers []CustomerInfo `json:"savedCustomers"`
	LastCurrency   CurrencyCode   `json:"lastCurrency"`
}

// Clone returns a copy of the preferences that shares no slices with
// the receiver.
func (p Preferences) Clone() Preferences {
	out := p
	out.SavedCustomers = make([]CustomerInfo, len(p.SavedCustomers))
	copy(out.SavedCustomers, p.SavedCustomers)
	return out
}

// InvoiceState is the aggregate owned by the draft state manager.
// Totals is always the totals engine's output for the current Draft.
type InvoiceState struct {
	Draft       Invoice          `json:"draft"`
	Totals      CalculatedTotals `json:"totals"`
	Preferences Preferences      `json:"preferences"`
	IsLoading   bool             `json:"isLoading"`
}

// IDGenerator produces identifiers unique within their collection for
// the lifetime of the draft, e.g. "item_1893428...".
type IDGenerator func(prefix string) string
