package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/app/queries"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/metrics"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// Service bundles the back-office use cases exposed over HTTP and the operator CLI.
type Service struct {
	store     ports.Store
	idemStore ports.IdempotencyStore
	threshold int64
	now       func() time.Time

	placeOrder   commands.PlaceOrderHandler
	deleteOrder  commands.DeleteOrderHandler
	adjustStock  commands.AdjustStockHandler
	rebuildStats *commands.RebuildCustomerStatsCommandHandler

	getOrder   *queries.GetOrderQueryHandler
	listOrders *queries.ListOrdersQueryHandler
	snapshot   *queries.InventorySnapshotQueryHandler
	expander   *queries.OrderExpander
}

// Option customises a Service.
type Option func(*Service)

// WithLowStockThreshold sets the threshold used when a snapshot request does not supply one.
func WithLowStockThreshold(threshold int64) Option {
	return func(s *Service) {
		if threshold >= 0 {
			s.threshold = threshold
		}
	}
}

// WithClock overrides the time source for created and updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService wires required dependencies.
func NewService(
	store ports.Store,
	events ports.EventBus,
	idem ports.IdempotencyStore,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	opts ...Option,
) *Service {
	s := &Service{
		store:     store,
		idemStore: idem,
		threshold: domain.DefaultLowStockThreshold,
		now:       func() time.Time { return time.Now().UTC() },

		placeOrder: commands.NewObservablePlaceOrderHandler(
			commands.NewPlaceOrderCommandHandler(store, events, logger), logger, metrics),
		deleteOrder: commands.NewObservableDeleteOrderHandler(
			commands.NewDeleteOrderCommandHandler(store, events, logger), logger, metrics),
		adjustStock: commands.NewObservableAdjustStockHandler(
			commands.NewAdjustStockCommandHandler(store.Products(), events, logger), logger, metrics),
		rebuildStats: commands.NewRebuildCustomerStatsCommandHandler(store),

		getOrder:   queries.NewGetOrderQueryHandler(store),
		listOrders: queries.NewListOrdersQueryHandler(store),
		snapshot:   queries.NewInventorySnapshotQueryHandler(store.Products()),
		expander:   queries.NewOrderExpander(store),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping reports whether the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// SaveIdempotentResponse writes response details for a key.
func (s *Service) SaveIdempotentResponse(ctx context.Context, key string, response ports.StoredResponse) error {
	return s.idemStore.Save(ctx, key, response)
}

// GetIdempotentResponse retrieves previously stored response data.
func (s *Service) GetIdempotentResponse(ctx context.Context, key string) (*ports.StoredResponse, error) {
	return s.idemStore.Get(ctx, key)
}
