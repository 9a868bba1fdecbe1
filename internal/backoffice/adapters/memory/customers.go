package memory

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type customerRepo struct {
	scope
}

func (r *customerRepo) Create(_ context.Context, customer domain.Customer) error {
	d, done := r.write()
	defer done()

	d.customers[customer.ID] = customer
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	d, done := r.read()
	defer done()

	customer, ok := d.customers[id]
	if !ok {
		return nil, domain.NewNotFound("Customer", id)
	}
	return &customer, nil
}

// GetForUpdate is GetByID here: transactions already hold the store's write lock.
func (r *customerRepo) GetForUpdate(ctx context.Context, id string) (*domain.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *customerRepo) GetMany(_ context.Context, ids []string) (map[string]domain.Customer, error) {
	d, done := r.read()
	defer done()

	found := make(map[string]domain.Customer, len(ids))
	for _, id := range ids {
		if customer, ok := d.customers[id]; ok {
			found[id] = customer
		}
	}
	return found, nil
}

func (r *customerRepo) List(_ context.Context, filter ports.CustomerFilter) (ports.ListResult[domain.Customer], error) {
	d, done := r.read()
	defer done()

	var matched []domain.Customer
	for _, customer := range d.customers {
		if filter.Match(customer) {
			matched = append(matched, customer)
		}
	}
	ports.SortNewestFirst(matched, func(c domain.Customer) (time.Time, string) { return c.CreatedAt, c.ID })
	return ports.Paginate(matched, filter.Page), nil
}

func (r *customerRepo) Update(_ context.Context, customer domain.Customer) error {
	d, done := r.write()
	defer done()

	existing, ok := d.customers[customer.ID]
	if !ok {
		return domain.NewNotFound("Customer", customer.ID)
	}

	customer.CustomerStats = existing.CustomerStats
	customer.CreatedAt = existing.CreatedAt
	d.customers[customer.ID] = customer
	return nil
}

func (r *customerRepo) UpdateStats(_ context.Context, id string, stats domain.CustomerStats) error {
	d, done := r.write()
	defer done()

	customer, ok := d.customers[id]
	if !ok {
		return domain.NewNotFound("Customer", id)
	}

	customer.CustomerStats = stats
	customer.UpdatedAt = time.Now().UTC()
	d.customers[id] = customer
	return nil
}

func (r *customerRepo) Delete(_ context.Context, id string) error {
	d, done := r.write()
	defer done()

	if _, ok := d.customers[id]; !ok {
		return domain.NewNotFound("Customer", id)
	}
	delete(d.customers, id)
	return nil
}
