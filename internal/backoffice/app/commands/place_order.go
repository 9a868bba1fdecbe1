package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/money"
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID string `json:"product"`
	Quantity  int64  `json:"quantity"`
}

type PlaceOrderCommand struct {
	CustomerID    string               `json:"customer"`
	Items         []OrderLine          `json:"items"`
	Tax           money.Cents          `json:"tax"`
	Discount      money.Cents          `json:"discount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	Status        domain.OrderStatus   `json:"status"`
	Notes         string               `json:"notes"`
}

func (c PlaceOrderCommand) Validate() error {
	v := &domain.ValidationError{}
	if strings.TrimSpace(c.CustomerID) == "" {
		v.Add("customer", "Customer is required")
	}
	if len(c.Items) == 0 {
		v.Add("items", "At least one item is required")
	}
	for i, line := range c.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			v.Add(fmt.Sprintf("items[%d].product", i), "Product is required")
		}
		if line.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
	}
	if c.Tax < 0 {
		v.Add("tax", "Tax must be zero or greater")
	}
	if c.Discount < 0 {
		v.Add("discount", "Discount must be zero or greater")
	}
	if !c.PaymentMethod.Valid() {
		v.Add("paymentMethod", "Invalid payment method")
	}
	if c.PaymentStatus != "" && !c.PaymentStatus.Valid() {
		v.Add("paymentStatus", "Invalid payment status")
	}
	if c.Status != "" && !c.Status.Valid() {
		v.Add("status", "Invalid order status")
	}
	return v.Err()
}

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error)
}

// PlaceOrderCommandHandler assembles an order: it reserves stock line by line, freezes
// prices, stores the order and folds it into the customer aggregate, all in one transaction.
type PlaceOrderCommandHandler struct {
	store  ports.Store
	events ports.EventBus
	logger *slog.Logger
}

func NewPlaceOrderCommandHandler(store ports.Store, events ports.EventBus, logger *slog.Logger) *PlaceOrderCommandHandler {
	return &PlaceOrderCommandHandler{
		store:  store,
		events: events,
		logger: logger,
	}
}

func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            domain.NewID(),
		OrderNumber:   domain.NewOrderNumber(now),
		CustomerID:    strings.TrimSpace(cmd.CustomerID),
		Tax:           cmd.Tax,
		Discount:      cmd.Discount,
		Status:        cmd.Status,
		PaymentStatus: cmd.PaymentStatus,
		PaymentMethod: cmd.PaymentMethod,
		Notes:         strings.TrimSpace(cmd.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if order.Status == "" {
		order.Status = domain.StatusPending
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = domain.PaymentPending
	}

	err := h.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		customer, err := repos.Customers().GetForUpdate(ctx, order.CustomerID)
		if err != nil {
			return err
		}

		// The transaction may be retried, so items are rebuilt on every attempt.
		order.Items = make([]domain.OrderItem, 0, len(cmd.Items))
		for _, line := range cmd.Items {
			product, err := repos.Products().ReserveStock(ctx, strings.TrimSpace(line.ProductID), line.Quantity)
			if err != nil {
				return err
			}
			item, err := domain.NewOrderItem(product.ID, line.Quantity, product.Price)
			if err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		if err := order.ComputeTotals(); err != nil {
			return err
		}

		if err := order.Validate(); err != nil {
			return err
		}
		if err := repos.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		stats, err := customer.CustomerStats.ApplyOrderPlaced(order.PlacedEvent())
		if err != nil {
			return err
		}
		if err := repos.Customers().UpdateStats(ctx, customer.ID, stats); err != nil {
			return fmt.Errorf("update customer stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := h.events.PublishOrderPlaced(ctx, order.PlacedEvent()); err != nil {
		h.logger.WarnContext(ctx, "order placed but event was not published",
			"order_id", order.ID,
			"error", err,
		)
	}

	return &order, nil
}
