package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/invoiceforge/invoiceforge/internal/clock"
	"github.com/invoiceforge/invoiceforge/internal/draft/service"
	"github.com/invoiceforge/invoiceforge/internal/draft/store"
	"github.com/invoiceforge/invoiceforge/internal/preview/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServer(t *testing.T, load bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	st, err := store.New(store.Params{DB: db, Log: zap.NewNop()})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fixed := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{Log: zap.NewNop(), Store: st, GenID: node, Clock: fixed})
	if load {
		svc.Load(context.Background())
	}

	srv := New(Params{Log: zap.NewNop(), Drafts: svc, Renderer: render.NewRenderer()})
	engine := gin.New()
	srv.Register(engine)
	return engine
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetDraft(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodGet, "/v1/draft", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Draft struct {
				Number   string `json:"number"`
				Currency string `json:"currency"`
			} `json:"draft"`
			IsLoading bool `json:"isLoading"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.Draft.Number, "INV-"))
	assert.Equal(t, "USD", resp.Data.Draft.Currency)
	assert.False(t, resp.Data.IsLoading)
}

func TestDispatchAction_UpdatesTotals(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodGet, "/v1/draft", "")
	require.Equal(t, http.StatusOK, w.Code)
	itemID := firstItemID(t, w.Body.Bytes())

	// String numerics from form inputs coerce to numbers.
	body := fmt.Sprintf(`{"type":"UPDATE_ITEM","payload":{"id":%q,"updates":{"quantity":"2","unitPrice":"100","taxRatePercent":"10","discountType":"percent","discountValue":"10"}}}`, itemID)
	w = do(t, engine, http.MethodPost, "/v1/draft/actions", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Totals struct {
				Subtotal      float64 `json:"subtotal"`
				DiscountTotal float64 `json:"discountTotal"`
				TaxTotal      float64 `json:"taxTotal"`
				GrandTotal    float64 `json:"grandTotal"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 200.0, resp.Data.Totals.Subtotal)
	assert.Equal(t, 20.0, resp.Data.Totals.DiscountTotal)
	assert.Equal(t, 18.0, resp.Data.Totals.TaxTotal)
	assert.Equal(t, 198.0, resp.Data.Totals.GrandTotal)
}

func TestDispatchAction_UnknownTypeIsHarmless(t *testing.T) {
	engine := setupServer(t, true)

	before := do(t, engine, http.MethodGet, "/v1/draft", "").Body.String()
	w := do(t, engine, http.MethodPost, "/v1/draft/actions", `{"type":"SOMETHING_NEW","payload":{"x":1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	after := do(t, engine, http.MethodGet, "/v1/draft", "").Body.String()
	assert.JSONEq(t, before, after)
}

func TestDispatchAction_Malformed(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodPost, "/v1/draft/actions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, engine, http.MethodPost, "/v1/draft/actions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchAction_GatedWhileLoading(t *testing.T) {
	engine := setupServer(t, false)

	w := do(t, engine, http.MethodPost, "/v1/draft/actions", `{"type":"ADD_ITEM"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "loading")
}

func TestResetDraft(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodPost, "/v1/draft/actions", `{"type":"SET_BUSINESS","payload":{"name":"Acme"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodPost, "/v1/draft/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Acme")
}

func TestPreview(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodGet, "/v1/draft/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<!doctype html>")
}

func TestCustomerLifecycle(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodPost, "/v1/preferences/customers", `{"displayName":"Globex","email":"ap@globex.test"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var prefs struct {
		Data struct {
			SavedCustomers []struct {
				ID          string `json:"id"`
				DisplayName string `json:"displayName"`
			} `json:"savedCustomers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefs))
	require.Len(t, prefs.Data.SavedCustomers, 1)
	assert.NotEmpty(t, prefs.Data.SavedCustomers[0].ID)
	id := prefs.Data.SavedCustomers[0].ID

	w = do(t, engine, http.MethodPost, "/v1/preferences/customers/"+id+"/apply", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Globex")

	w = do(t, engine, http.MethodDelete, "/v1/preferences/customers/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, engine, http.MethodGet, "/v1/preferences", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Globex")
}

func TestSaveCustomer_InvalidPayload(t *testing.T) {
	engine := setupServer(t, true)

	w := do(t, engine, http.MethodPost, "/v1/preferences/customers", `{broken`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func firstItemID(t *testing.T, body []byte) string {
	t.Helper()

	var resp struct {
		Data struct {
			Draft struct {
				Items []struct {
					ID string `json:"id"`
				} `json:"items"`
			} `json:"draft"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Data.Draft.Items)
	return resp.Data.Draft.Items[0].ID
}
