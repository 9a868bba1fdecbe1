package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/adapters/memory"
	"github.com/dejobratic/backoffice/internal/backoffice/app/queries"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Customers().Create(ctx, domain.Customer{
		ID:      "c-1",
		Name:    "Ana",
		Email:   "ana@example.com",
		Address: domain.Address{City: "Novi Sad", Country: "RS"},
	}))
	for _, p := range []domain.Product{
		{ID: "p-1", Name: "Hammer", SKU: "H-1", Price: 1500, Cost: 700, Stock: 4, Status: domain.ProductActive, CreatedAt: now},
		{ID: "p-2", Name: "Nails", SKU: "N-1", Price: 200, Cost: 50, Stock: 0, Status: domain.ProductActive, CreatedAt: now},
		{ID: "p-3", Name: "Saw", SKU: "S-1", Price: 3000, Cost: 1000, Stock: 2, Status: domain.ProductDiscontinued, CreatedAt: now},
	} {
		require.NoError(t, store.Products().Create(ctx, p))
	}

	for i, id := range []string{"o-1", "o-2"} {
		o := domain.Order{
			ID:            id,
			OrderNumber:   "ORD-20260201-0000000" + id[2:],
			CustomerID:    "c-1",
			Items:         []domain.OrderItem{{ProductID: "p-1", Quantity: 1, Price: 1500, Subtotal: 1500}, {ProductID: "gone", Quantity: 1, Price: 100, Subtotal: 100}},
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
			CreatedAt:     now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, o.ComputeTotals())
		require.NoError(t, store.Orders().Create(ctx, o))
	}
	return store
}

func TestGetOrderExpandsDetail(t *testing.T) {
	store := seed(t)
	handler := queries.NewGetOrderQueryHandler(store)

	view, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "o-1"})
	require.NoError(t, err)

	require.NotNil(t, view.Customer)
	assert.Equal(t, "Ana", view.Customer.Name)
	require.NotNil(t, view.Customer.Address)
	assert.Equal(t, "Novi Sad", view.Customer.Address.City)

	require.Len(t, view.Items, 2)
	require.NotNil(t, view.Items[0].Product)
	require.NotNil(t, view.Items[0].Product.Stock)
	assert.Equal(t, int64(4), *view.Items[0].Product.Stock)
	assert.Nil(t, view.Items[1].Product, "deleted product expands to null")
	assert.Equal(t, "gone", view.Items[1].ProductID)
}

func TestGetOrderErrors(t *testing.T) {
	handler := queries.NewGetOrderQueryHandler(seed(t))

	_, err := handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: " "})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = handler.Handle(context.Background(), queries.GetOrderQuery{OrderID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrdersUsesSummaries(t *testing.T) {
	handler := queries.NewListOrdersQueryHandler(seed(t))

	res, err := handler.Handle(context.Background(), queries.ListOrdersQuery{
		Filter: ports.OrderFilter{CustomerID: "c-1", Page: ports.Page{Number: 1, Limit: 10}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "o-2", res.Items[0].ID, "newest first")
	assert.Nil(t, res.Items[0].Customer.Address)
	assert.Nil(t, res.Items[0].Items[0].Product.Stock)

	raw, err := json.Marshal(res.Items[0])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"address"`)
	assert.Contains(t, string(raw), `"product":null`)
}

func TestInventorySnapshotIgnoresInactiveProducts(t *testing.T) {
	handler := queries.NewInventorySnapshotQueryHandler(seed(t).Products())

	snap, err := handler.Handle(context.Background(), queries.InventorySnapshotQuery{LowStockThreshold: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, snap.TotalProducts)
	assert.Equal(t, 1, snap.LowStockCount)
	assert.Equal(t, "p-1", snap.LowStockProducts[0].ID)
	assert.Equal(t, 1, snap.OutOfStockCount)
	assert.Equal(t, "p-2", snap.OutOfStockProducts[0].ID)
	assert.Equal(t, int64(4*700), int64(snap.TotalValue))
}
