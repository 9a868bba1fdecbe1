package app

import (
	"context"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/app/queries"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// PlaceOrderInput captures the payload for placing an order.
type PlaceOrderInput = commands.PlaceOrderCommand

// PlaceOrder assembles the order and returns it with customer and products expanded.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*queries.OrderView, error) {
	order, err := s.placeOrder.Handle(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.expandOne(ctx, *order, queries.DetailSummary)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*queries.OrderView, error) {
	return s.getOrder.Handle(ctx, queries.GetOrderQuery{OrderID: id})
}

func (s *Service) ListOrders(ctx context.Context, filter ports.OrderFilter) (ports.ListResult[queries.OrderView], error) {
	return s.listOrders.Handle(ctx, queries.ListOrdersQuery{Filter: filter})
}

// OrderUpdateInput lists the order fields that may change after assembly.
// Items, customer and totals are fixed once the order is placed.
type OrderUpdateInput struct {
	Status        *domain.OrderStatus   `json:"status"`
	PaymentStatus *domain.PaymentStatus `json:"paymentStatus"`
	PaymentMethod *domain.PaymentMethod `json:"paymentMethod"`
	Notes         *string               `json:"notes"`
}

func (s *Service) UpdateOrder(ctx context.Context, id string, in OrderUpdateInput) (*queries.OrderView, error) {
	order, err := s.store.Orders().GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		order.Status = *in.Status
	}
	if in.PaymentStatus != nil {
		order.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		order.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		order.Notes = strings.TrimSpace(*in.Notes)
	}
	order.UpdatedAt = s.now()

	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Orders().Update(ctx, *order); err != nil {
		return nil, err
	}
	return s.expandOne(ctx, *order, queries.DetailSummary)
}

// DeleteOrder returns the order's items to stock and removes it.
func (s *Service) DeleteOrder(ctx context.Context, id string) (*domain.OrderDeleted, error) {
	return s.deleteOrder.Handle(ctx, commands.DeleteOrderCommand{OrderID: id})
}

func (s *Service) expandOne(ctx context.Context, order domain.Order, detail queries.Detail) (*queries.OrderView, error) {
	views, err := s.expander.Expand(ctx, []domain.Order{order}, detail)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
