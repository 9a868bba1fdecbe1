package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/money"
)

func TestBuildInventorySnapshot(t *testing.T) {
	products := []domain.Product{
		{ID: "low", Name: "Low", SKU: "L-1", Stock: 5, Cost: 200, Status: domain.ProductActive},
		{ID: "out", Name: "Out", SKU: "O-1", Stock: 0, Cost: 900, Status: domain.ProductActive},
		{ID: "edge", Name: "Edge", SKU: "E-1", Stock: 10, Cost: 100, Status: domain.ProductActive},
		{ID: "plenty", Name: "Plenty", SKU: "P-1", Stock: 50, Cost: 10, Status: domain.ProductActive},
		{ID: "retired", Name: "Retired", SKU: "R-1", Stock: 3, Cost: 1000, Status: domain.ProductDiscontinued},
		{ID: "paused", Name: "Paused", SKU: "X-1", Stock: 0, Cost: 1000, Status: domain.ProductInactive},
	}

	snap, err := domain.BuildInventorySnapshot(products, 10)
	if err != nil {
		t.Fatalf("BuildInventorySnapshot() failed: %v", err)
	}

	if snap.TotalProducts != 4 {
		t.Errorf("expected 4 active products, got %d", snap.TotalProducts)
	}
	if snap.LowStockCount != 2 {
		t.Fatalf("expected 2 low stock products, got %d (%+v)", snap.LowStockCount, snap.LowStockProducts)
	}
	if snap.LowStockProducts[0].ID != "low" || snap.LowStockProducts[1].ID != "edge" {
		t.Errorf("unexpected low stock products: %+v", snap.LowStockProducts)
	}
	if snap.LowStockProducts[0].MinStock != 10 {
		t.Errorf("expected minStock 10, got %d", snap.LowStockProducts[0].MinStock)
	}
	if snap.OutOfStockCount != 1 || snap.OutOfStockProducts[0].ID != "out" {
		t.Errorf("unexpected out of stock products: %+v", snap.OutOfStockProducts)
	}
	for _, item := range snap.LowStockProducts {
		if item.ID == "out" {
			t.Error("out of stock product must not be listed as low stock")
		}
	}

	wantValue := int64(5*200 + 0*900 + 10*100 + 50*10)
	if int64(snap.TotalValue) != wantValue {
		t.Errorf("expected total value %d, got %d", wantValue, snap.TotalValue)
	}
}

func TestBuildInventorySnapshotThreshold(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Stock: 5, Status: domain.ProductActive},
		{ID: "b", Stock: 12, Status: domain.ProductActive},
	}

	tests := []struct {
		name      string
		threshold int64
		wantLow   int
	}{
		{"negative falls back to default", -1, 1},
		{"zero disables low stock", 0, 0},
		{"wider threshold", 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := domain.BuildInventorySnapshot(products, tt.threshold)
			if err != nil {
				t.Fatalf("BuildInventorySnapshot() failed: %v", err)
			}
			if snap.LowStockCount != tt.wantLow {
				t.Errorf("expected %d low stock products, got %d", tt.wantLow, snap.LowStockCount)
			}
		})
	}
}

func TestBuildInventorySnapshotEmpty(t *testing.T) {
	snap, err := domain.BuildInventorySnapshot(nil, domain.DefaultLowStockThreshold)
	if err != nil {
		t.Fatalf("BuildInventorySnapshot() failed: %v", err)
	}

	if snap.LowStockProducts == nil || snap.OutOfStockProducts == nil {
		t.Error("expected empty, non-nil lists")
	}
	if snap.TotalProducts != 0 || snap.TotalValue != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestBuildInventorySnapshotValueOutOfRange(t *testing.T) {
	products := []domain.Product{
		{ID: "a", Stock: 1, Cost: money.Cents(math.MaxInt64), Status: domain.ProductActive},
		{ID: "b", Stock: 1, Cost: 1, Status: domain.ProductActive},
	}

	if _, err := domain.BuildInventorySnapshot(products, 10); !errors.Is(err, money.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}
