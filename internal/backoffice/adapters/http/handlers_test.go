package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/adapters/memory"
	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/metrics"
	idemmemory "github.com/dejobratic/backoffice/internal/idempotency/memory"
	"github.com/dejobratic/backoffice/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
	Data    json.RawMessage   `json:"data"`
	Errors  []json.RawMessage `json:"errors"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := metrics.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	svc := app.NewService(memory.NewStore(), kafka.NewNoopEventBus(logger), idemmemory.NewStore(), logger, m)
	mux := http.NewServeMux()
	NewHandler(svc, logger).Register(mux)
	return &testAPI{t: t, handler: WithRecovery(mux, logger)}
}

func (a *testAPI) do(method, path, body string, headers ...string) (*httptest.ResponseRecorder, apiResponse) {
	a.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var resp apiResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func (a *testAPI) create(path, body string) map[string]any {
	a.t.Helper()
	rec, resp := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var data map[string]any
	require.NoError(a.t, json.Unmarshal(resp.Data, &data))
	return data
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestProductEndpoints(t *testing.T) {
	api := newTestAPI(t)

	product := api.create("/api/products", `{"name":"Hammer","sku":"H-1","category":"tools","price":12.5,"cost":6,"stock":10}`)
	id := product["id"].(string)
	assert.Equal(t, 12.5, product["price"])
	assert.Equal(t, "piece", product["unit"])

	rec, resp := api.do(http.MethodPost, "/api/products", `{"name":"Other","sku":"H-1","category":"tools"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, resp.Success)

	rec, resp = api.do(http.MethodPost, "/api/products", `{"name":"Bad","sku":"B-1","category":"tools","price":1.005}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)

	rec, resp = api.do(http.MethodPut, "/api/products/"+id, `{"price":13,"stock":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, resp.Data)
	assert.Equal(t, 13.0, updated["price"])
	assert.Equal(t, 10.0, updated["stock"])

	rec, resp = api.do(http.MethodGet, "/api/products?search=hamm&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 1, resp.Pages)

	rec, resp = api.do(http.MethodGet, "/api/products?page=9223372036854775807&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, resp.Count)
	assert.Equal(t, 1, resp.Total)

	rec, resp = api.do(http.MethodDelete, "/api/products/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", resp.Message)

	rec, _ = api.do(http.MethodGet, "/api/products/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrorsListFields(t *testing.T) {
	api := newTestAPI(t)

	rec, resp := api.do(http.MethodPost, "/api/customers", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Len(t, resp.Errors, 2)

	rec, resp = api.do(http.MethodPost, "/api/customers", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
}

func TestOrderLifecycle(t *testing.T) {
	api := newTestAPI(t)
	customer := api.create("/api/customers", `{"name":"Ana","email":"ana@example.com","address":{"city":"Novi Sad"}}`)
	product := api.create("/api/products", `{"name":"Widget","sku":"W-1","category":"parts","price":10,"cost":4,"stock":5}`)
	customerID := customer["id"].(string)
	productID := product["id"].(string)

	order := api.create("/api/orders", `{"customer":"`+customerID+`","items":[{"product":"`+productID+`","quantity":2}],"tax":1.5}`)
	orderID := order["id"].(string)
	assert.Equal(t, 20.0, order["subtotal"])
	assert.Equal(t, 21.5, order["total"])
	assert.Equal(t, "pending", order["status"])
	assert.Equal(t, "Ana", order["customer"].(map[string]any)["name"])

	_, resp := api.do(http.MethodGet, "/api/products/"+productID, "")
	assert.Equal(t, 3.0, decode[map[string]any](t, resp.Data)["stock"])

	rec, resp := api.do(http.MethodPost, "/api/orders", `{"customer":"`+customerID+`","items":[{"product":"`+productID+`","quantity":4}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Insufficient stock for product Widget. Available: 3", resp.Message)

	rec, _ = api.do(http.MethodPost, "/api/orders", `{"customer":"missing","items":[{"product":"`+productID+`","quantity":1}]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = api.do(http.MethodGet, "/api/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[map[string]any](t, resp.Data)
	assert.Equal(t, "Novi Sad", detail["customer"].(map[string]any)["address"].(map[string]any)["city"])
	line := detail["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 3.0, line["product"].(map[string]any)["stock"])

	rec, resp = api.do(http.MethodPut, "/api/orders/"+orderID, `{"status":"shipped","paymentStatus":"paid"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shipped", decode[map[string]any](t, resp.Data)["status"])

	rec, _ = api.do(http.MethodGet, "/api/orders?status=shipped&customer="+customerID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = api.do(http.MethodDelete, "/api/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Order deleted successfully", resp.Message)

	_, resp = api.do(http.MethodGet, "/api/products/"+productID, "")
	assert.Equal(t, 5.0, decode[map[string]any](t, resp.Data)["stock"])

	_, resp = api.do(http.MethodGet, "/api/customers/"+customerID, "")
	assert.Equal(t, 1.0, decode[map[string]any](t, resp.Data)["totalOrders"])

	rec, resp = api.do(http.MethodPost, "/api/customers/"+customerID+"/stats/rebuild", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, decode[map[string]any](t, resp.Data)["totalOrders"])
}

func TestCreateOrderReplaysIdempotentResponse(t *testing.T) {
	api := newTestAPI(t)
	customer := api.create("/api/customers", `{"name":"Ana"}`)
	product := api.create("/api/products", `{"name":"Widget","sku":"W-1","category":"parts","price":10,"stock":5}`)
	body := `{"customer":"` + customer["id"].(string) + `","items":[{"product":"` + product["id"].(string) + `","quantity":1}]}`

	first, _ := api.do(http.MethodPost, "/api/orders", body, idempotencyHeader, "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	second, _ := api.do(http.MethodPost, "/api/orders", body, idempotencyHeader, "abc")
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))

	_, resp := api.do(http.MethodGet, "/api/products/"+product["id"].(string), "")
	assert.Equal(t, 4.0, decode[map[string]any](t, resp.Data)["stock"])
}

func TestInventoryEndpoints(t *testing.T) {
	api := newTestAPI(t)
	low := api.create("/api/products", `{"name":"Low","sku":"L-1","category":"c","cost":2,"stock":4}`)
	api.create("/api/products", `{"name":"Out","sku":"O-1","category":"c","cost":2,"stock":0}`)
	api.create("/api/products", `{"name":"Plenty","sku":"P-1","category":"c","cost":2,"stock":50}`)

	tests := []struct {
		query   string
		wantLow int
	}{
		{query: "", wantLow: 1},
		{query: "?lowStock=60", wantLow: 2},
		{query: "?lowStock=abc", wantLow: 1},
		{query: "?lowStock=-4", wantLow: 1},
	}
	for _, tt := range tests {
		t.Run("lowStock"+tt.query, func(t *testing.T) {
			rec, resp := api.do(http.MethodGet, "/api/inventory"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			snap := decode[map[string]any](t, resp.Data)
			assert.Equal(t, 3.0, snap["totalProducts"])
			assert.Equal(t, float64(tt.wantLow), snap["lowStockCount"])
			assert.Equal(t, 1.0, snap["outOfStockCount"])
			assert.Equal(t, 108.0, snap["totalValue"])
		})
	}

	id := low["id"].(string)
	rec, resp := api.do(http.MethodPut, "/api/inventory/"+id+"/stock", `{"operation":"add"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Stock quantity is required", resp.Message)

	rec, resp = api.do(http.MethodPut, "/api/inventory/"+id+"/stock", `{"stock":9,"operation":"subtract"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, decode[map[string]any](t, resp.Data)["stock"])

	rec, resp = api.do(http.MethodPut, "/api/inventory/"+id+"/stock", `{"stock":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.0, decode[map[string]any](t, resp.Data)["stock"])

	rec, _ = api.do(http.MethodPut, "/api/inventory/missing/stock", `{"stock":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserEndpointsHidePassword(t *testing.T) {
	api := newTestAPI(t)

	rec, resp := api.do(http.MethodPost, "/api/users", `{"name":"Mila","email":"mila@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, string(resp.Data), "password")
	assert.NotContains(t, string(resp.Data), "secret1")

	rec, _ = api.do(http.MethodPost, "/api/users", `{"name":"Dup","email":"mila@example.com","password":"secret2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp = api.do(http.MethodGet, "/api/users?role=employee", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Total)
}

func TestHealthEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}
