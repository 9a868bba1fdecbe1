package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/kafka"
	"github.com/dejobratic/backoffice/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type ObservableEventBus struct {
	bus     ports.EventBus
	metrics *kafka.Metrics
}

func NewObservableEventBus(bus ports.EventBus, metrics *kafka.Metrics) *ObservableEventBus {
	return &ObservableEventBus{
		bus:     bus,
		metrics: metrics,
	}
}

func (e *ObservableEventBus) publish(ctx context.Context, eventType string, publish func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := telemetry.StartSpan(ctx, "EventBus.Publish "+eventType)
	defer span.End()

	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("event.type", eventType))...)

	start := time.Now()
	err := publish(ctx)
	e.metrics.RecordPublish(ctx, eventType, time.Since(start), err)

	if err != nil {
		telemetry.FinishSpan(span, err)
		return err
	}

	telemetry.FinishSpan(span, nil)
	return nil
}

func (e *ObservableEventBus) PublishOrderPlaced(ctx context.Context, event domain.OrderPlaced) error {
	return e.publish(ctx, kafka.EventOrderPlaced, func(ctx context.Context) error {
		return e.bus.PublishOrderPlaced(ctx, event)
	}, attribute.String("order.id", event.OrderID))
}

func (e *ObservableEventBus) PublishOrderDeleted(ctx context.Context, event domain.OrderDeleted) error {
	return e.publish(ctx, kafka.EventOrderDeleted, func(ctx context.Context) error {
		return e.bus.PublishOrderDeleted(ctx, event)
	}, attribute.String("order.id", event.OrderID))
}

func (e *ObservableEventBus) PublishStockAdjusted(ctx context.Context, event domain.StockAdjusted) error {
	return e.publish(ctx, kafka.EventStockAdjusted, func(ctx context.Context) error {
		return e.bus.PublishStockAdjusted(ctx, event)
	}, attribute.String("product.id", event.ProductID))
}
