package metrics

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() failed: %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Failed to collect metrics: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestInitializeMetrics(t *testing.T) {
	m, _ := newTestMetrics(t)

	if m.ordersPlacedTotal == nil || m.orderPlacementDuration == nil || m.ordersDeletedTotal == nil ||
		m.stockRestoredUnits == nil || m.stockAdjustmentsTotal == nil {
		t.Fatal("expected all instruments to be initialized")
	}
}

func TestRecordOrderPlaced(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOrderPlaced(ctx, "success")
	m.RecordOrderPlaced(ctx, "success")
	m.RecordOrderPlaced(ctx, "rejected")
	m.RecordOrderPlacementDuration(ctx, 0.05)

	got := collect(t, reader)

	sum, ok := got["orders_placed_total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected Sum[int64] for orders_placed_total")
	}
	byStatus := map[string]int64{}
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		byStatus[status.AsString()] = dp.Value
	}
	if byStatus["success"] != 2 || byStatus["rejected"] != 1 {
		t.Errorf("unexpected counts by status: %v", byStatus)
	}

	if _, ok := got["order_placement_duration_seconds"].Data.(metricdata.Histogram[float64]); !ok {
		t.Error("expected order_placement_duration_seconds histogram")
	}
}

func TestRecordOrderDeleted(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordOrderDeleted(ctx, 3)
	m.RecordOrderDeleted(ctx, 0)

	got := collect(t, reader)

	deleted := got["orders_deleted_total"].Data.(metricdata.Sum[int64])
	if deleted.DataPoints[0].Value != 2 {
		t.Errorf("expected 2 deletions, got %d", deleted.DataPoints[0].Value)
	}
	restored := got["stock_restored_units_total"].Data.(metricdata.Sum[int64])
	if restored.DataPoints[0].Value != 3 {
		t.Errorf("expected 3 restored units, got %d", restored.DataPoints[0].Value)
	}
}

func TestRecordStockAdjustment(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStockAdjustment(ctx, "add", true)
	m.RecordStockAdjustment(ctx, "subtract", false)

	got := collect(t, reader)

	sum, ok := got["stock_adjustments_total"].Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatal("expected Sum[int64] for stock_adjustments_total")
	}
	if len(sum.DataPoints) != 2 {
		t.Errorf("expected 2 data points, got %d", len(sum.DataPoints))
	}
}
