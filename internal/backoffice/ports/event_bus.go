package ports

import (
	"context"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

// EventBus defines the contract for publishing order and stock events.
// Events are published after the owning transaction commits.
type EventBus interface {
	PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error
	PublishOrderDeleted(ctx context.Context, event domain.OrderDeleted) error
	PublishStockAdjusted(ctx context.Context, event domain.StockAdjusted) error
}
