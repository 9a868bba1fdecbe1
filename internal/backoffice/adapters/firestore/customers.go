package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/money"
)

type addressDoc struct {
	Street  string `firestore:"street"`
	City    string `firestore:"city"`
	State   string `firestore:"state"`
	ZipCode string `firestore:"zipCode"`
	Country string `firestore:"country"`
}

type customerDoc struct {
	Name            string     `firestore:"name"`
	Email           string     `firestore:"email"`
	Phone           string     `firestore:"phone"`
	Company         string     `firestore:"company"`
	Address         addressDoc `firestore:"address"`
	CustomerType    string     `firestore:"customerType"`
	Status          string     `firestore:"status"`
	Notes           string     `firestore:"notes"`
	TotalOrders     int64      `firestore:"totalOrders"`
	TotalSpentCents int64      `firestore:"totalSpentCents"`
	CreatedAt       time.Time  `firestore:"createdAt"`
	UpdatedAt       time.Time  `firestore:"updatedAt"`
}

func toCustomerDoc(c domain.Customer) customerDoc {
	return customerDoc{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Address: addressDoc{
			Street:  c.Address.Street,
			City:    c.Address.City,
			State:   c.Address.State,
			ZipCode: c.Address.ZipCode,
			Country: c.Address.Country,
		},
		CustomerType:    string(c.CustomerType),
		Status:          string(c.Status),
		Notes:           c.Notes,
		TotalOrders:     c.TotalOrders,
		TotalSpentCents: int64(c.TotalSpent),
		CreatedAt:       c.CreatedAt.UTC(),
		UpdatedAt:       c.UpdatedAt.UTC(),
	}
}

func decodeCustomer(snap *firestore.DocumentSnapshot) (domain.Customer, error) {
	var d customerDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Customer{}, err
	}
	return domain.Customer{
		ID:      snap.Ref.ID,
		Name:    d.Name,
		Email:   d.Email,
		Phone:   d.Phone,
		Company: d.Company,
		Address: domain.Address{
			Street:  d.Address.Street,
			City:    d.Address.City,
			State:   d.Address.State,
			ZipCode: d.Address.ZipCode,
			Country: d.Address.Country,
		},
		CustomerType: domain.CustomerType(d.CustomerType),
		Status:       domain.CustomerStatus(d.Status),
		Notes:        d.Notes,
		CustomerStats: domain.CustomerStats{
			TotalOrders: d.TotalOrders,
			TotalSpent:  money.Cents(d.TotalSpentCents),
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type customerRepo struct {
	scope
}

func (r *customerRepo) ref(id string) *firestore.DocumentRef {
	return r.col(customersCollection).Doc(id)
}

func (r *customerRepo) Create(ctx context.Context, customer domain.Customer) error {
	return r.mutate(ctx, func(_ context.Context, sc scope) error {
		sc.create(r.ref(customer.ID), customer, toCustomerDoc(customer))
		return nil
	})
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	customer, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeCustomer)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("Customer", id)
	}
	return &customer, nil
}

// GetForUpdate is a transactional read; Firestore locks the document until commit.
func (r *customerRepo) GetForUpdate(ctx context.Context, id string) (*domain.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *customerRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	found := make(map[string]domain.Customer, len(ids))
	for _, id := range ids {
		if _, seen := found[id]; seen {
			continue
		}
		customer, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeCustomer)
		if err != nil {
			return nil, err
		}
		if ok {
			found[id] = customer
		}
	}
	return found, nil
}

func (r *customerRepo) List(ctx context.Context, filter ports.CustomerFilter) (ports.ListResult[domain.Customer], error) {
	q := r.col(customersCollection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.CustomerType != "" {
		q = q.Where("customerType", "==", string(filter.CustomerType))
	}

	customers, err := queryDocs(ctx, r.scope, customersCollection, q, decodeCustomer, filter.Match)
	if err != nil {
		return ports.ListResult[domain.Customer]{}, err
	}

	matched := customers[:0]
	for _, c := range customers {
		if filter.Match(c) {
			matched = append(matched, c)
		}
	}
	ports.SortNewestFirst(matched, func(c domain.Customer) (time.Time, string) { return c.CreatedAt, c.ID })
	return ports.Paginate(matched, filter.Page), nil
}

func (r *customerRepo) Update(ctx context.Context, customer domain.Customer) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		existing, ok, err := getDoc(ctx, sc, r.ref(customer.ID), decodeCustomer)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Customer", customer.ID)
		}

		customer.CustomerStats = existing.CustomerStats
		customer.CreatedAt = existing.CreatedAt
		sc.set(r.ref(customer.ID), customer, toCustomerDoc(customer))
		return nil
	})
}

func (r *customerRepo) UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		customer, ok, err := getDoc(ctx, sc, r.ref(id), decodeCustomer)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Customer", id)
		}

		customer.CustomerStats = stats
		customer.UpdatedAt = time.Now().UTC()
		sc.set(r.ref(id), customer, toCustomerDoc(customer))
		return nil
	})
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		_, ok, err := getDoc(ctx, sc, r.ref(id), decodeCustomer)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Customer", id)
		}
		sc.remove(r.ref(id))
		return nil
	})
}
