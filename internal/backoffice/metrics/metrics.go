package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	ordersPlacedTotal      metric.Int64Counter
	orderPlacementDuration metric.Float64Histogram
	ordersDeletedTotal     metric.Int64Counter
	stockRestoredUnits     metric.Int64Counter
	stockAdjustmentsTotal  metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.ordersPlacedTotal, err = meter.Int64Counter(
		"orders_placed_total",
		metric.WithDescription("Total number of order placement attempts"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_placed_total counter: %w", err)
	}

	m.orderPlacementDuration, err = meter.Float64Histogram(
		"order_placement_duration_seconds",
		metric.WithDescription("Duration of order assembly including stock reservation"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("create order_placement_duration histogram: %w", err)
	}

	m.ordersDeletedTotal, err = meter.Int64Counter(
		"orders_deleted_total",
		metric.WithDescription("Total number of orders reversed and deleted"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders_deleted_total counter: %w", err)
	}

	m.stockRestoredUnits, err = meter.Int64Counter(
		"stock_restored_units_total",
		metric.WithDescription("Units returned to stock by order deletion"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create stock_restored_units_total counter: %w", err)
	}

	m.stockAdjustmentsTotal, err = meter.Int64Counter(
		"stock_adjustments_total",
		metric.WithDescription("Total number of administrative stock adjustments"),
		metric.WithUnit("{adjustment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create stock_adjustments_total counter: %w", err)
	}

	return m, nil
}

// RecordOrderPlaced counts one placement attempt. outcome is success, rejected or error.
func (m *Metrics) RecordOrderPlaced(ctx context.Context, outcome string) {
	m.ordersPlacedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", outcome),
	))
}

func (m *Metrics) RecordOrderPlacementDuration(ctx context.Context, durationSeconds float64) {
	m.orderPlacementDuration.Record(ctx, durationSeconds)
}

func (m *Metrics) RecordOrderDeleted(ctx context.Context, restoredUnits int64) {
	m.ordersDeletedTotal.Add(ctx, 1)
	if restoredUnits > 0 {
		m.stockRestoredUnits.Add(ctx, restoredUnits)
	}
}

func (m *Metrics) RecordStockAdjustment(ctx context.Context, operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.stockAdjustmentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}
