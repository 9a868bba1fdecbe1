package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type AdjustStockCommand struct {
	ProductID string
	Operation domain.StockOperation
	Quantity  int64
}

type AdjustStockHandler interface {
	Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.Product, error)
}

// AdjustStockCommandHandler applies an administrative set/add/subtract to one product.
// It does not check outstanding orders.
type AdjustStockCommandHandler struct {
	products ports.ProductRepository
	events   ports.EventBus
	logger   *slog.Logger
}

func NewAdjustStockCommandHandler(products ports.ProductRepository, events ports.EventBus, logger *slog.Logger) *AdjustStockCommandHandler {
	return &AdjustStockCommandHandler{
		products: products,
		events:   events,
		logger:   logger,
	}
}

func (h *AdjustStockCommandHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.Product, error) {
	adj := domain.StockAdjustment{Operation: cmd.Operation, Quantity: cmd.Quantity}
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	adj = adj.Normalized()

	change, err := h.products.AdjustStock(ctx, strings.TrimSpace(cmd.ProductID), adj)
	if err != nil {
		return nil, err
	}

	event := domain.StockAdjusted{
		ProductID:  change.Product.ID,
		SKU:        change.Product.SKU,
		Operation:  adj.Operation,
		Quantity:   adj.Quantity,
		Previous:   change.Previous,
		Current:    change.Product.Stock,
		OccurredAt: time.Now().UTC(),
	}
	if err := h.events.PublishStockAdjusted(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "stock adjusted but event was not published",
			"product_id", event.ProductID,
			"error", err,
		)
	}

	return &change.Product, nil
}
