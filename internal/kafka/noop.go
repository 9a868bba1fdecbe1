package kafka

import (
	"context"
	"log/slog"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

// NoopEventBus logs events without sending them to Kafka. Used when no brokers are configured.
type NoopEventBus struct {
	logger *slog.Logger
}

// NewNoopEventBus returns a new no-op event publisher.
func NewNoopEventBus(logger *slog.Logger) *NoopEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopEventBus{logger: logger}
}

func (n *NoopEventBus) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	n.logger.DebugContext(ctx, "event::order_placed", "order_id", event.OrderID, "total", event.Total.String())
	return nil
}

func (n *NoopEventBus) PublishOrderDeleted(ctx context.Context, event domain.OrderDeleted) error {
	n.logger.DebugContext(ctx, "event::order_deleted", "order_id", event.OrderID, "restored_lines", len(event.Restored))
	return nil
}

func (n *NoopEventBus) PublishStockAdjusted(ctx context.Context, event domain.StockAdjusted) error {
	n.logger.DebugContext(ctx, "event::stock_adjusted", "product_id", event.ProductID, "previous", event.Previous, "current", event.Current)
	return nil
}

func (n *NoopEventBus) Close() error {
	return nil
}
