package queries

import (
	"context"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// InventorySnapshotQuery asks for the stock overview. A negative threshold means the default.
type InventorySnapshotQuery struct {
	LowStockThreshold int64
}

type InventorySnapshotQueryHandler struct {
	products ports.ProductRepository
}

func NewInventorySnapshotQueryHandler(products ports.ProductRepository) *InventorySnapshotQueryHandler {
	return &InventorySnapshotQueryHandler{products: products}
}

func (h *InventorySnapshotQueryHandler) Handle(ctx context.Context, query InventorySnapshotQuery) (domain.InventorySnapshot, error) {
	products, err := h.products.ListActive(ctx)
	if err != nil {
		return domain.InventorySnapshot{}, fmt.Errorf("list active products: %w", err)
	}
	return domain.BuildInventorySnapshot(products, query.LowStockThreshold)
}
