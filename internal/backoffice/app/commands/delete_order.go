package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type DeleteOrderCommand struct {
	OrderID string
}

type DeleteOrderHandler interface {
	Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.OrderDeleted, error)
}

// DeleteOrderCommandHandler returns every line's quantity to stock and removes the order.
// Lines whose product no longer exists are skipped. Customer aggregates are not reversed.
type DeleteOrderCommandHandler struct {
	store  ports.Store
	events ports.EventBus
	logger *slog.Logger
}

func NewDeleteOrderCommandHandler(store ports.Store, events ports.EventBus, logger *slog.Logger) *DeleteOrderCommandHandler {
	return &DeleteOrderCommandHandler{
		store:  store,
		events: events,
		logger: logger,
	}
}

func (h *DeleteOrderCommandHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.OrderDeleted, error) {
	id := strings.TrimSpace(cmd.OrderID)
	if id == "" {
		return nil, domain.NewValidationError("id", "Order id is required")
	}

	var event domain.OrderDeleted
	err := h.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		order, err := repos.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}

		restored := make([]domain.StockRestore, 0, len(order.Items))
		for _, item := range order.Items {
			restore := domain.StockRestore{ProductID: item.ProductID, Quantity: item.Quantity}

			_, err := repos.Products().AdjustStock(ctx, item.ProductID, domain.StockAdjustment{
				Operation: domain.StockAdd,
				Quantity:  item.Quantity,
			})
			switch {
			case errors.Is(err, domain.ErrNotFound):
				restore.Skipped = true
				h.logger.WarnContext(ctx, "product gone, stock not restored",
					"order_id", order.ID,
					"product_id", item.ProductID,
					"quantity", item.Quantity,
				)
			case err != nil:
				return fmt.Errorf("restore stock for %s: %w", item.ProductID, err)
			}
			restored = append(restored, restore)
		}

		if err := repos.Orders().Delete(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}

		event = domain.OrderDeleted{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			CustomerID:  order.CustomerID,
			Total:       order.Total,
			Restored:    restored,
			OccurredAt:  time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderDeleted(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "order deleted but event was not published",
			"order_id", event.OrderID,
			"error", err,
		)
	}

	return &event, nil
}
