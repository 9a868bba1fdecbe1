package domain

import (
	"fmt"

	"github.com/dejobratic/backoffice/internal/money"
)

// DefaultLowStockThreshold is used when no threshold is supplied.
const DefaultLowStockThreshold int64 = 10

type LowStockItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Stock    int64  `json:"stock"`
	MinStock int64  `json:"minStock"`
}

type OutOfStockItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// InventorySnapshot summarises stock across active products.
type InventorySnapshot struct {
	TotalProducts      int              `json:"totalProducts"`
	LowStockCount      int              `json:"lowStockCount"`
	OutOfStockCount    int              `json:"outOfStockCount"`
	TotalValue         money.Cents      `json:"totalValue"`
	LowStockProducts   []LowStockItem   `json:"lowStockProducts"`
	OutOfStockProducts []OutOfStockItem `json:"outOfStockProducts"`
}

// BuildInventorySnapshot partitions active products into low-stock (0 < stock <= threshold)
// and out-of-stock (stock == 0) and values all active stock at cost. Inactive and
// discontinued products are ignored. The error wraps money.ErrOutOfRange when the
// total value does not fit in cents.
func BuildInventorySnapshot(products []Product, threshold int64) (InventorySnapshot, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}

	snap := InventorySnapshot{
		LowStockProducts:   []LowStockItem{},
		OutOfStockProducts: []OutOfStockItem{},
	}

	for _, p := range products {
		if !p.IsActive() {
			continue
		}
		snap.TotalProducts++
		value, err := p.InventoryValue()
		if err != nil {
			return InventorySnapshot{}, err
		}
		if snap.TotalValue, err = snap.TotalValue.Add(value); err != nil {
			return InventorySnapshot{}, fmt.Errorf("total inventory value: %w", err)
		}

		switch {
		case p.Stock == 0:
			snap.OutOfStockProducts = append(snap.OutOfStockProducts, OutOfStockItem{
				ID: p.ID, Name: p.Name, SKU: p.SKU,
			})
		case p.Stock <= threshold:
			snap.LowStockProducts = append(snap.LowStockProducts, LowStockItem{
				ID: p.ID, Name: p.Name, SKU: p.SKU, Stock: p.Stock, MinStock: threshold,
			})
		}
	}

	snap.LowStockCount = len(snap.LowStockProducts)
	snap.OutOfStockCount = len(snap.OutOfStockProducts)
	return snap, nil
}
