package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Action
	}{
		{
			name: "set invoice patch",
			in:   `{"type":"SET_INVOICE","payload":{"number":"INV-7","themeColor":"#112233"}}`,
			want: SetInvoice{Patch: InvoicePatch{Number: ptr("INV-7"), ThemeColor: ptr("#112233")}},
		},
		{
			name: "add item has no payload",
			in:   `{"type":"ADD_ITEM"}`,
			want: AddItem{},
		},
		{
			name: "remove item",
			in:   `{"type":"REMOVE_ITEM","payload":{"id":"item_9"}}`,
			want: RemoveItem{ID: "item_9"},
		},
		{
			name: "update item with string numerics",
			in:   `{"type":"UPDATE_ITEM","payload":{"id":"item_1","updates":{"quantity":"2","unitPrice":"100"}}}`,
			want: UpdateItem{ID: "item_1", Patch: LineItemPatch{Quantity: nptr(2), UnitPrice: nptr(100)}},
		},
		{
			name: "reorder",
			in:   `{"type":"REORDER_ITEMS","payload":{"from":2,"to":0}}`,
			want: ReorderItems{From: 2, To: 0},
		},
		{
			name: "discount timing carries a bare string payload",
			in:   `{"type":"SET_DISCOUNT_TIMING","payload":"after-tax"}`,
			want: SetDiscountTiming{Timing: DiscountAfterTax},
		},
		{
			name: "currency",
			in:   `{"type":"SET_CURRENCY","payload":"EUR"}`,
			want: SetCurrency{Currency: CurrencyEUR},
		},
		{
			name: "save customer",
			in:   `{"type":"SAVE_CUSTOMER","payload":{"displayName":"Globex"}}`,
			want: SaveCustomer{Customer: CustomerInfo{DisplayName: "Globex"}},
		},
		{
			name: "delete customer",
			in:   `{"type":"DELETE_CUSTOMER","payload":{"id":"cust_3"}}`,
			want: DeleteCustomer{ID: "cust_3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAction_UnknownTypeIsNil(t *testing.T) {
	got, err := DecodeAction([]byte(`{"type":"SOMETHING_NEW","payload":{"x":1}}`))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeAction_MalformedEnvelope(t *testing.T) {
	_, err := DecodeAction([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecodeAction_MalformedPayload(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"REORDER_ITEMS","payload":{"from":"x"}}`))
	assert.Error(t, err)
}

func ptr(s string) *string { return &s }

func nptr(v float64) *Numeric {
	n := Numeric(v)
	return &n
}
