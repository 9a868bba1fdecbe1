package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/metrics"
	"github.com/dejobratic/backoffice/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// outcome classifies a command error for metrics: rejected for caller mistakes, error otherwise.
func outcome(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &verr),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInsufficientStock):
		return "rejected"
	default:
		return "error"
	}
}

type ObservablePlaceOrderHandler struct {
	handler PlaceOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservablePlaceOrderHandler(handler PlaceOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservablePlaceOrderHandler {
	return &ObservablePlaceOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservablePlaceOrderHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "PlaceOrderCommand.Handle")
	defer span.End()

	start := time.Now()
	var err error
	defer func() {
		o.metrics.RecordOrderPlacementDuration(ctx, time.Since(start).Seconds())
		o.metrics.RecordOrderPlaced(ctx, outcome(err))
	}()

	telemetry.AddSpanAttributes(span,
		attribute.String("order.customer_id", cmd.CustomerID),
		attribute.Int("order.line_count", len(cmd.Items)),
	)
	o.logger.InfoContext(ctx, "placing order",
		"customer_id", cmd.CustomerID,
		"lines", len(cmd.Items),
	)

	var order *domain.Order
	order, err = o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.FinishSpan(span, err)
		o.logger.WarnContext(ctx, "failed to place order",
			"error", err,
			"customer_id", cmd.CustomerID,
		)
		return nil, err
	}

	telemetry.AddSpanAttributes(span,
		attribute.String("order.id", order.ID),
		attribute.String("order.number", order.OrderNumber),
		attribute.Int64("order.total_cents", int64(order.Total)),
		attribute.String("order.status", string(order.Status)),
	)
	o.logger.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total", order.Total.String(),
	)

	telemetry.FinishSpan(span, nil)
	return order, nil
}

type ObservableDeleteOrderHandler struct {
	handler DeleteOrderHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableDeleteOrderHandler(handler DeleteOrderHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableDeleteOrderHandler {
	return &ObservableDeleteOrderHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableDeleteOrderHandler) Handle(ctx context.Context, cmd DeleteOrderCommand) (*domain.OrderDeleted, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeleteOrderCommand.Handle")
	defer span.End()

	telemetry.AddSpanAttributes(span, attribute.String("order.id", cmd.OrderID))

	event, err := o.handler.Handle(ctx, cmd)
	if err != nil {
		telemetry.FinishSpan(span, err)
		o.logger.WarnContext(ctx, "failed to delete order", "error", err, "order_id", cmd.OrderID)
		return nil, err
	}

	var units int64
	var skipped int
	for _, r := range event.Restored {
		if r.Skipped {
			skipped++
			continue
		}
		units += r.Quantity
	}
	o.metrics.RecordOrderDeleted(ctx, units)

	telemetry.AddSpanAttributes(span,
		attribute.Int64("stock.restored_units", units),
		attribute.Int("stock.skipped_lines", skipped),
	)
	o.logger.InfoContext(ctx, "order deleted",
		"order_id", event.OrderID,
		"restored_units", units,
		"skipped_lines", skipped,
	)

	telemetry.FinishSpan(span, nil)
	return event, nil
}

type ObservableAdjustStockHandler struct {
	handler AdjustStockHandler
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewObservableAdjustStockHandler(handler AdjustStockHandler, logger *slog.Logger, metrics *metrics.Metrics) *ObservableAdjustStockHandler {
	return &ObservableAdjustStockHandler{
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

func (o *ObservableAdjustStockHandler) Handle(ctx context.Context, cmd AdjustStockCommand) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "AdjustStockCommand.Handle")
	defer span.End()

	op := string(cmd.Operation)
	if op == "" {
		op = string(domain.StockSet)
	}
	telemetry.AddSpanAttributes(span,
		attribute.String("product.id", cmd.ProductID),
		attribute.String("stock.operation", op),
		attribute.Int64("stock.quantity", cmd.Quantity),
	)

	product, err := o.handler.Handle(ctx, cmd)
	o.metrics.RecordStockAdjustment(ctx, op, err == nil)
	if err != nil {
		telemetry.FinishSpan(span, err)
		o.logger.WarnContext(ctx, "failed to adjust stock", "error", err, "product_id", cmd.ProductID)
		return nil, err
	}

	o.logger.InfoContext(ctx, "stock adjusted",
		"product_id", product.ID,
		"operation", op,
		"quantity", cmd.Quantity,
		"stock", product.Stock,
	)

	telemetry.FinishSpan(span, nil)
	return product, nil
}
