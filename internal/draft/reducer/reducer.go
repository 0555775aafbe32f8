// Package reducer applies intent actions to the invoice state. Every
// transition is an immutable merge followed by a totals recompute; the
// reducer never fails, degrading malformed references to no-ops.
package reducer

import (
	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
	"github.com/invoiceforge/invoiceforge/internal/draft/totals"
)

// Reducer is pure given its identifier generator. The generator is
// injected so tests can pin ids deterministically.
type Reducer struct {
	gen domain.IDGenerator
}

func New(gen domain.IDGenerator) *Reducer {
	return &Reducer{gen: gen}
}

// Apply produces the next state. Nil and unknown actions return the
// state unchanged. Input slices are never aliased by the result.
func (r *Reducer) Apply(state domain.InvoiceState, action domain.Action) domain.InvoiceState {
	switch a := action.(type) {
	case domain.Load:
		next := a.State
		next.Draft = next.Draft.Clone()
		next.Preferences = next.Preferences.Clone()
		next.Totals = totals.Compute(next.Draft)
		return next

	case domain.SetInvoice:
		draft := state.Draft.Clone()
		applyInvoicePatch(&draft, a.Patch)
		return recompute(state, draft)

	case domain.SetBusiness:
		draft := state.Draft.Clone()
		applyBusinessPatch(&draft.Business, a.Patch)
		return recompute(state, draft)

	case domain.SetCustomer:
		draft := state.Draft.Clone()
		applyCustomerPatch(&draft.Customer, a.Patch)
		return recompute(state, draft)

	case domain.AddItem:
		draft := state.Draft.Clone()
		draft.Items = append(draft.Items, domain.NewLineItem(r.gen))
		return recompute(state, draft)

	case domain.RemoveItem:
		idx := itemIndex(state.Draft.Items, a.ID)
		if idx < 0 {
			return state
		}
		draft := state.Draft.Clone()
		draft.Items = append(draft.Items[:idx], draft.Items[idx+1:]...)
		return recompute(state, draft)

	case domain.UpdateItem:
		idx := itemIndex(state.Draft.Items, a.ID)
		if idx < 0 {
			return state
		}
		draft := state.Draft.Clone()
		applyLineItemPatch(&draft.Items[idx], a.Patch)
		return recompute(state, draft)

	case domain.ReorderItems:
		n := len(state.Draft.Items)
		if n == 0 {
			return state
		}
		from := clampIndex(a.From, n)
		to := clampIndex(a.To, n)
		if from == to {
			return state
		}
		draft := state.Draft.Clone()
		moved := draft.Items[from]
		rest := append(draft.Items[:from], draft.Items[from+1:]...)
		items := make([]domain.LineItem, 0, n)
		items = append(items, rest[:to]...)
		items = append(items, moved)
		items = append(items, rest[to:]...)
		draft.Items = items
		return recompute(state, draft)

	case domain.SetDiscountTiming:
		draft := state.Draft.Clone()
		draft.DiscountTiming = a.Timing
		return recompute(state, draft)

	case domain.SetCurrency:
		draft := state.Draft.Clone()
		draft.Currency = a.Currency
		next := recompute(state, draft)
		prefs := state.Preferences.Clone()
		prefs.LastCurrency = a.Currency
		next.Preferences = prefs
		return next

	case domain.SaveCustomer:
		customer := a.Customer
		if customer.ID == "" {
			customer.ID = r.gen("cust")
		}
		prefs := state.Preferences.Clone()
		kept := make([]domain.CustomerInfo, 0, len(prefs.SavedCustomers)+1)
		kept = append(kept, customer)
		for _, c := range prefs.SavedCustomers {
			if c.ID != customer.ID {
				kept = append(kept, c)
			}
		}
		prefs.SavedCustomers = kept
		next := state
		next.Preferences = prefs
		return next

	case domain.DeleteCustomer:
		found := false
		for _, c := range state.Preferences.SavedCustomers {
			if c.ID == a.ID {
				found = true
				break
			}
		}
		if !found {
			return state
		}
		prefs := state.Preferences.Clone()
		kept := prefs.SavedCustomers[:0]
		for _, c := range prefs.SavedCustomers {
			if c.ID != a.ID {
				kept = append(kept, c)
			}
		}
		prefs.SavedCustomers = kept
		next := state
		next.Preferences = prefs
		return next

	default:
		return state
	}
}

func recompute(state domain.InvoiceState, draft domain.Invoice) domain.InvoiceState {
	state.Draft = draft
	state.Totals = totals.Compute(draft)
	return state
}

func itemIndex(items []domain.LineItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func applyInvoicePatch(inv *domain.Invoice, p domain.InvoicePatch) {
	if p.Number != nil {
		inv.Number = *p.Number
	}
	if p.IssueDate != nil {
		inv.IssueDate = *p.IssueDate
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Currency != nil {
		inv.Currency = *p.Currency
	}
	if p.ThemeColor != nil {
		inv.ThemeColor = *p.ThemeColor
	}
	if p.Payment != nil {
		applyPaymentPatch(&inv.Payment, *p.Payment)
	}
}

func applyPaymentPatch(pay *domain.PaymentInfo, p domain.PaymentPatch) {
	if p.Terms != nil {
		pay.Terms = *p.Terms
	}
	if p.Methods != nil {
		pay.Methods = *p.Methods
	}
	if p.BankDetails != nil {
		pay.BankDetails = *p.BankDetails
	}
	if p.Notes != nil {
		pay.Notes = *p.Notes
	}
	if p.TermsAndConditions != nil {
		pay.TermsAndConditions = *p.TermsAndConditions
	}
}

func applyBusinessPatch(b *domain.BusinessInfo, p domain.BusinessPatch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.LogoDataURL != nil {
		b.LogoDataURL = *p.LogoDataURL
	}
	if p.AddressLine1 != nil {
		b.AddressLine1 = *p.AddressLine1
	}
	if p.AddressLine2 != nil {
		b.AddressLine2 = *p.AddressLine2
	}
	if p.City != nil {
		b.City = *p.City
	}
	if p.State != nil {
		b.State = *p.State
	}
	if p.PostalCode != nil {
		b.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		b.Country = *p.Country
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
}

func applyCustomerPatch(c *domain.CustomerInfo, p domain.CustomerPatch) {
	if p.ID != nil {
		c.ID = *p.ID
	}
	if p.DisplayName != nil {
		c.DisplayName = *p.DisplayName
	}
	if p.AddressLine1 != nil {
		c.AddressLine1 = *p.AddressLine1
	}
	if p.AddressLine2 != nil {
		c.AddressLine2 = *p.AddressLine2
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.PostalCode != nil {
		c.PostalCode = *p.PostalCode
	}
	if p.Country != nil {
		c.Country = *p.Country
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Reference != nil {
		c.Reference = *p.Reference
	}
}

func applyLineItemPatch(item *domain.LineItem, p domain.LineItemPatch) {
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	if p.TaxRatePercent != nil {
		item.TaxRatePercent = *p.TaxRatePercent
	}
	if p.DiscountType != nil {
		item.DiscountType = *p.DiscountType
	}
	if p.DiscountValue != nil {
		item.DiscountValue = *p.DiscountValue
	}
}
