package app

import (
	"context"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/app/queries"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

// InventorySnapshot summarises active stock. A negative threshold selects the configured default.
func (s *Service) InventorySnapshot(ctx context.Context, threshold int64) (domain.InventorySnapshot, error) {
	if threshold < 0 {
		threshold = s.threshold
	}
	return s.snapshot.Handle(ctx, queries.InventorySnapshotQuery{LowStockThreshold: threshold})
}

// LowStockThreshold is the threshold applied when a caller does not supply one.
func (s *Service) LowStockThreshold() int64 {
	return s.threshold
}

// AdjustStock applies a set, add or subtract to a product's stock.
func (s *Service) AdjustStock(ctx context.Context, productID string, op domain.StockOperation, quantity int64) (*domain.Product, error) {
	return s.adjustStock.Handle(ctx, commands.AdjustStockCommand{
		ProductID: productID,
		Operation: op,
		Quantity:  quantity,
	})
}
