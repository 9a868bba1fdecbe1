package promcollector

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

const namespace = "backoffice"

// SnapshotSource produces the inventory snapshot exported on every scrape.
type SnapshotSource interface {
	InventorySnapshot(ctx context.Context, threshold int64) (domain.InventorySnapshot, error)
}

// InventoryCollector exports inventory gauges computed from a fresh snapshot at scrape time.
type InventoryCollector struct {
	source  SnapshotSource
	logger  *slog.Logger
	timeout time.Duration

	totalProducts *prometheus.Desc
	lowStock      *prometheus.Desc
	outOfStock    *prometheus.Desc
	value         *prometheus.Desc
	up            *prometheus.Desc
}

func NewInventoryCollector(source SnapshotSource, logger *slog.Logger) *InventoryCollector {
	return &InventoryCollector{
		source:  source,
		logger:  logger,
		timeout: 5 * time.Second,
		totalProducts: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inventory", "active_products"),
			"Number of active products.", nil, nil),
		lowStock: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inventory", "low_stock_products"),
			"Active products at or below the low stock threshold.", nil, nil),
		outOfStock: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inventory", "out_of_stock_products"),
			"Active products with zero stock.", nil, nil),
		value: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inventory", "value"),
			"Stock of active products valued at cost.", nil, nil),
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "inventory", "snapshot_up"),
			"Whether the last inventory snapshot succeeded.", nil, nil),
	}
}

func (c *InventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalProducts
	ch <- c.lowStock
	ch <- c.outOfStock
	ch <- c.value
	ch <- c.up
}

func (c *InventoryCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.source.InventorySnapshot(ctx, -1)
	if err != nil {
		c.logger.ErrorContext(ctx, "inventory snapshot for metrics failed", slog.String("error", err.Error()))
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}

	ch <- prometheus.MustNewConstMetric(c.totalProducts, prometheus.GaugeValue, float64(snap.TotalProducts))
	ch <- prometheus.MustNewConstMetric(c.lowStock, prometheus.GaugeValue, float64(snap.LowStockCount))
	ch <- prometheus.MustNewConstMetric(c.outOfStock, prometheus.GaugeValue, float64(snap.OutOfStockCount))
	ch <- prometheus.MustNewConstMetric(c.value, prometheus.GaugeValue, snap.TotalValue.Float64())
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
}
