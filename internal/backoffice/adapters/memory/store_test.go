package memory_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/adapters/memory"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, store *memory.Store, id, sku string, stock int64, createdAt time.Time) domain.Product {
	t.Helper()
	p := domain.Product{
		ID:        id,
		Name:      "Product " + id,
		SKU:       sku,
		Category:  "tools",
		Price:     1000,
		Cost:      400,
		Stock:     stock,
		Unit:      domain.UnitPiece,
		Status:    domain.ProductActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func TestProductsRejectDuplicateSKU(t *testing.T) {
	store := memory.NewStore()
	now := time.Now().UTC()
	seedProduct(t, store, "p-1", "SKU-1", 5, now)

	err := store.Products().Create(context.Background(), domain.Product{ID: "p-2", SKU: "SKU-1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProductUpdateKeepsStock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := seedProduct(t, store, "p-1", "SKU-1", 5, time.Now().UTC())

	p.Name = "Renamed"
	p.Stock = 999
	require.NoError(t, store.Products().Update(ctx, p))

	got, err := store.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(5), got.Stock)
}

func TestReserveStock(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, store, "p-1", "SKU-1", 3, time.Now().UTC())

	got, err := store.Products().ReserveStock(ctx, "p-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock)

	_, err = store.Products().ReserveStock(ctx, "p-1", 2)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1), insufficient.Available)

	_, err = store.Products().ReserveStock(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStockReportsPrevious(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, store, "p-1", "SKU-1", 4, time.Now().UTC())

	change, err := store.Products().AdjustStock(ctx, "p-1", domain.StockAdjustment{Operation: domain.StockSubtract, Quantity: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), change.Previous)
	assert.Equal(t, int64(0), change.Product.Stock)

	_, err = store.Products().AdjustStock(ctx, "missing", domain.StockAdjustment{Operation: domain.StockAdd, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjustStockRejectsOverflow(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, store, "p-1", "SKU-1", 4, time.Now().UTC())

	_, err := store.Products().AdjustStock(ctx, "p-1", domain.StockAdjustment{Operation: domain.StockAdd, Quantity: math.MaxInt64})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock", verr.Fields[0].Field)

	got, err := store.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Stock)
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, store, "p-1", "SKU-1", 10, time.Now().UTC())

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		if _, err := repos.Products().ReserveStock(ctx, "p-1", 4); err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, domain.Order{ID: "o-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Stock)

	_, err = store.Orders().GetByID(ctx, "o-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWithinTxCommits(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedProduct(t, store, "p-1", "SKU-1", 10, time.Now().UTC())

	err := store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		_, err := repos.Products().ReserveStock(ctx, "p-1", 4)
		return err
	})
	require.NoError(t, err)

	p, err := store.Products().GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(6), p.Stock)
}

func TestProductListFiltersAndPaginates(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		seedProduct(t, store, fmt.Sprintf("p-%02d", i), fmt.Sprintf("SKU-%02d", i), int64(i), base.Add(time.Duration(i)*time.Hour))
	}

	res, err := store.Products().List(ctx, ports.ProductFilter{Page: ports.Page{Number: 2, Limit: 5}})
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total)
	require.Len(t, res.Items, 5)
	assert.Equal(t, "p-06", res.Items[0].ID, "newest first")

	res, err = store.Products().List(ctx, ports.ProductFilter{Search: "sku-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total, "SKU-10 and SKU-11")

	res, err = store.Products().List(ctx, ports.ProductFilter{Page: ports.Page{Number: 9}})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 12, res.Total)
}

func TestOrderUpdateOnlyTouchesMutableFields(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	order := domain.Order{
		ID:            "o-1",
		CustomerID:    "c-1",
		Items:         []domain.OrderItem{{ProductID: "p-1", Quantity: 1, Price: 500, Subtotal: 500}},
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
	}
	require.NoError(t, order.ComputeTotals())
	require.NoError(t, store.Orders().Create(ctx, order))

	changed := order
	changed.Status = domain.StatusShipped
	changed.Total = 1
	changed.Items = nil
	require.NoError(t, store.Orders().Update(ctx, changed))

	got, err := store.Orders().GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, got.Status)
	assert.Equal(t, order.Total, got.Total)
	assert.Len(t, got.Items, 1)
}

func TestCustomerUpdateKeepsStats(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	c := domain.Customer{ID: "c-1", Name: "Ana"}
	require.NoError(t, store.Customers().Create(ctx, c))
	require.NoError(t, store.Customers().UpdateStats(ctx, "c-1", domain.CustomerStats{TotalOrders: 2, TotalSpent: 900}))

	c.Name = "Ana B"
	require.NoError(t, store.Customers().Update(ctx, c))

	got, err := store.Customers().GetByID(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana B", got.Name)
	assert.Equal(t, int64(2), got.TotalOrders)
	assert.Equal(t, int64(900), int64(got.TotalSpent))
}

func TestUsersRejectDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, domain.User{ID: "u-1", Email: "ana@example.com"}))
	err := store.Users().Create(ctx, domain.User{ID: "u-2", Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
