package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/adapters/memory"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/money"
	"github.com/stretchr/testify/require"
)

type recordingEventBus struct {
	mu       sync.Mutex
	placed   []domain.OrderPlaced
	deleted  []domain.OrderDeleted
	adjusted []domain.StockAdjusted
	err      error
}

func (b *recordingEventBus) PublishOrderPlaced(_ context.Context, e domain.OrderPlaced) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.placed = append(b.placed, e)
	return b.err
}

func (b *recordingEventBus) PublishOrderDeleted(_ context.Context, e domain.OrderDeleted) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, e)
	return b.err
}

func (b *recordingEventBus) PublishStockAdjusted(_ context.Context, e domain.StockAdjusted) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adjusted = append(b.adjusted, e)
	return b.err
}

var errPublish = errors.New("broker unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store  *memory.Store
	events *recordingEventBus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{store: memory.NewStore(), events: &recordingEventBus{}}
}

func (f *fixture) product(t *testing.T, id string, price money.Cents, stock int64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.Products().Create(context.Background(), domain.Product{
		ID:        id,
		Name:      "Product " + id,
		SKU:       "SKU-" + id,
		Category:  "general",
		Price:     price,
		Cost:      price / 2,
		Stock:     stock,
		Unit:      domain.UnitPiece,
		Status:    domain.ProductActive,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func (f *fixture) customer(t *testing.T, id string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.store.Customers().Create(context.Background(), domain.Customer{
		ID:           id,
		Name:         "Customer " + id,
		CustomerType: domain.CustomerIndividual,
		Status:       domain.CustomerActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) stats(t *testing.T, id string) domain.CustomerStats {
	t.Helper()
	c, err := f.store.Customers().GetByID(context.Background(), id)
	require.NoError(t, err)
	return c.CustomerStats
}
