package domain

import (
	"encoding/json"
	"fmt"
)

// Action is an intent message handled by the reducer. Each kind is a
// tagged variant carrying a strongly-typed payload.
type Action interface {
	isAction()
}

// InvoicePatch is a partial update of the draft's top-level fields.
// Nil fields are left untouched.
type InvoicePatch struct {
	Number     *string       `json:"number,omitempty"`
	IssueDate  *string       `json:"issueDate,omitempty"`
	DueDate    *string       `json:"dueDate,omitempty"`
	Currency   *CurrencyCode `json:"currency,omitempty"`
	ThemeColor *string       `json:"themeColor,omitempty"`
	Payment    *PaymentPatch `json:"payment,omitempty"`
}

// PaymentPatch is a partial update of the payment block.
type PaymentPatch struct {
	Terms              *string `json:"terms,omitempty"`
	Methods            *string `json:"methods,omitempty"`
	BankDetails        *string `json:"bankDetails,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	TermsAndConditions *string `json:"termsAndConditions,omitempty"`
}

// BusinessPatch is a partial update of the business block.
type BusinessPatch struct {
	Name         *string `json:"name,omitempty"`
	LogoDataURL  *string `json:"logoDataUrl,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
	Country      *string `json:"country,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
}

// CustomerPatch is a partial update of the customer block.
type CustomerPatch struct {
	ID           *string `json:"id,omitempty"`
	DisplayName  *string `json:"displayName,omitempty"`
	AddressLine1 *string `json:"addressLine1,omitempty"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postalCode,omitempty"`
	Country      *string `json:"country,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Reference    *string `json:"reference,omitempty"`
}

// CustomerPatchOf converts a full customer record into a patch that
// sets every field, used when applying a saved customer to the draft.
func CustomerPatchOf(c CustomerInfo) CustomerPatch {
	return CustomerPatch{
		ID:           &c.ID,
		DisplayName:  &c.DisplayName,
		AddressLine1: &c.AddressLine1,
		AddressLine2: &c.AddressLine2,
		City:         &c.City,
		State:        &c.State,
		PostalCode:   &c.PostalCode,
		Country:      &c.Country,
		Email:        &c.Email,
		Phone:        &c.Phone,
		Reference:    &c.Reference,
	}
}

// LineItemPatch is a partial update of one line item.
type LineItemPatch struct {
	Description    *string       `json:"description,omitempty"`
	Quantity       *Numeric      `json:"quantity,omitempty"`
	UnitPrice      *Numeric      `json:"unitPrice,omitempty"`
	TaxRatePercent *Numeric      `json:"taxRatePercent,omitempty"`
	DiscountType   *DiscountType `json:"discountType,omitempty"`
	DiscountValue  *Numeric      `json:"discountValue,omitempty"`
}

// SetInvoice merges top-level draft fields.
type SetInvoice struct{ Patch InvoicePatch }

// SetBusiness merges fields into the business block.
type SetBusiness struct{ Patch BusinessPatch }

// SetCustomer merges fields into the customer block.
type SetCustomer struct{ Patch CustomerPatch }

// AddItem appends a fresh empty line item.
type AddItem struct{}

// RemoveItem removes the item with the given id. Unknown ids are
// no-ops.
type RemoveItem struct{ ID string }

// UpdateItem merges fields into the item with the given id. Unknown
// ids are no-ops.
type UpdateItem struct {
	ID    string
	Patch LineItemPatch
}

// ReorderItems moves the item at From to position To. Out-of-range
// indices are clamped to the valid range.
type ReorderItems struct{ From, To int }

// SetDiscountTiming updates the draft's discount timing.
type SetDiscountTiming struct{ Timing DiscountTiming }

// SetCurrency updates the draft currency and the last-used currency
// preference.
type SetCurrency struct{ Currency CurrencyCode }

// SaveCustomer upserts a customer into preferences by id, assigning a
// fresh id when absent, and moves it to the front of the list.
type SaveCustomer struct{ Customer CustomerInfo }

// DeleteCustomer removes a saved customer by id.
type DeleteCustomer struct{ ID string }

// Load replaces the entire state wholesale. Used once at startup and
// on reset; totals are recomputed from the loaded draft.
type Load struct{ State InvoiceState }

func (SetInvoice) isAction()        {}
func (SetBusiness) isAction()       {}
func (SetCustomer) isAction()       {}
func (AddItem) isAction()           {}
func (RemoveItem) isAction()        {}
func (UpdateItem) isAction()        {}
func (ReorderItems) isAction()      {}
func (SetDiscountTiming) isAction() {}
func (SetCurrency) isAction()       {}
func (SaveCustomer) isAction()      {}
func (DeleteCustomer) isAction()    {}
func (Load) isAction()              {}

// Transport action kinds.
const (
	KindSetInvoice        = "SET_INVOICE"
	KindSetBusiness       = "SET_BUSINESS"
	KindSetCustomer       = "SET_CUSTOMER"
	KindAddItem           = "ADD_ITEM"
	KindRemoveItem        = "REMOVE_ITEM"
	KindUpdateItem        = "UPDATE_ITEM"
	KindReorderItems      = "REORDER_ITEMS"
	KindSetDiscountTiming = "SET_DISCOUNT_TIMING"
	KindSetCurrency       = "SET_CURRENCY"
	KindSaveCustomer      = "SAVE_CUSTOMER"
	KindDeleteCustomer    = "DELETE_CUSTOMER"
	KindLoad              = "LOAD"
)

type actionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeAction parses the transport envelope {"type": ..., "payload": ...}.
// Unknown types decode to (nil, nil); dispatching nil is a no-op, which
// keeps the wire format forward compatible.
func DecodeAction(data []byte) (Action, error) {
	var env actionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}

	payload := env.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}

	switch env.Type {
	case KindSetInvoice:
		var p InvoicePatch
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return SetInvoice{Patch: p}, nil
	case KindSetBusiness:
		var p BusinessPatch
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return SetBusiness{Patch: p}, nil
	case KindSetCustomer:
		var p CustomerPatch
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return SetCustomer{Patch: p}, nil
	case KindAddItem:
		return AddItem{}, nil
	case KindRemoveItem:
		var p struct {
			ID string `json:"id"`
		}
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return RemoveItem{ID: p.ID}, nil
	case KindUpdateItem:
		var p struct {
			ID      string        `json:"id"`
			Updates LineItemPatch `json:"updates"`
		}
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return UpdateItem{ID: p.ID, Patch: p.Updates}, nil
	case KindReorderItems:
		var p struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return ReorderItems{From: p.From, To: p.To}, nil
	case KindSetDiscountTiming:
		var timing DiscountTiming
		if err := unmarshalPayload(env.Type, payload, &timing); err != nil {
			return nil, err
		}
		return SetDiscountTiming{Timing: timing}, nil
	case KindSetCurrency:
		var code CurrencyCode
		if err := unmarshalPayload(env.Type, payload, &code); err != nil {
			return nil, err
		}
		return SetCurrency{Currency: code}, nil
	case KindSaveCustomer:
		var c CustomerInfo
		if err := unmarshalPayload(env.Type, payload, &c); err != nil {
			return nil, err
		}
		return SaveCustomer{Customer: c}, nil
	case KindDeleteCustomer:
		var p struct {
			ID string `json:"id"`
		}
		if err := unmarshalPayload(env.Type, payload, &p); err != nil {
			return nil, err
		}
		return DeleteCustomer{ID: p.ID}, nil
	case KindLoad:
		var st InvoiceState
		if err := unmarshalPayload(env.Type, payload, &st); err != nil {
			return nil, err
		}
		return Load{State: st}, nil
	default:
		return nil, nil
	}
}

func unmarshalPayload(kind string, data json.RawMessage, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return nil
}
