package memory

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type orderRepo struct {
	scope
}

func (r *orderRepo) Create(_ context.Context, order domain.Order) error {
	d, done := r.write()
	defer done()

	order.Items = append([]domain.OrderItem(nil), order.Items...)
	d.orders[order.ID] = order
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	d, done := r.read()
	defer done()

	order, ok := d.orders[id]
	if !ok {
		return nil, domain.NewNotFound("Order", id)
	}
	order.Items = append([]domain.OrderItem(nil), order.Items...)
	return &order, nil
}

func (r *orderRepo) List(_ context.Context, filter ports.OrderFilter) (ports.ListResult[domain.Order], error) {
	d, done := r.read()
	defer done()

	var matched []domain.Order
	for _, order := range d.orders {
		if filter.Match(order) {
			matched = append(matched, order)
		}
	}
	sortOrders(matched)
	return ports.Paginate(matched, filter.Page), nil
}

func (r *orderRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Order, error) {
	d, done := r.read()
	defer done()

	orders := []domain.Order{}
	for _, order := range d.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	sortOrders(orders)
	return orders, nil
}

func (r *orderRepo) Update(_ context.Context, order domain.Order) error {
	d, done := r.write()
	defer done()

	existing, ok := d.orders[order.ID]
	if !ok {
		return domain.NewNotFound("Order", order.ID)
	}

	existing.Status = order.Status
	existing.PaymentStatus = order.PaymentStatus
	existing.PaymentMethod = order.PaymentMethod
	existing.Notes = order.Notes
	existing.UpdatedAt = order.UpdatedAt
	d.orders[order.ID] = existing
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	d, done := r.write()
	defer done()

	if _, ok := d.orders[id]; !ok {
		return domain.NewNotFound("Order", id)
	}
	delete(d.orders, id)
	return nil
}

func sortOrders(orders []domain.Order) {
	ports.SortNewestFirst(orders, func(o domain.Order) (time.Time, string) { return o.CreatedAt, o.ID })
}
