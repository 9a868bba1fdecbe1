package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/money"
)

// Order items are embedded in the order document; they are never edited after creation.
type orderItemDoc struct {
	ProductID     string `firestore:"productId"`
	Quantity      int64  `firestore:"quantity"`
	PriceCents    int64  `firestore:"priceCents"`
	SubtotalCents int64  `firestore:"subtotalCents"`
}

type orderDoc struct {
	OrderNumber   string         `firestore:"orderNumber"`
	CustomerID    string         `firestore:"customerId"`
	Items         []orderItemDoc `firestore:"items"`
	SubtotalCents int64          `firestore:"subtotalCents"`
	TaxCents      int64          `firestore:"taxCents"`
	DiscountCents int64          `firestore:"discountCents"`
	TotalCents    int64          `firestore:"totalCents"`
	Status        string         `firestore:"status"`
	PaymentStatus string         `firestore:"paymentStatus"`
	PaymentMethod string         `firestore:"paymentMethod"`
	Notes         string         `firestore:"notes"`
	CreatedAt     time.Time      `firestore:"createdAt"`
	UpdatedAt     time.Time      `firestore:"updatedAt"`
}

func toOrderDoc(o domain.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDoc{
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			PriceCents:    int64(item.Price),
			SubtotalCents: int64(item.Subtotal),
		})
	}
	return orderDoc{
		OrderNumber:   o.OrderNumber,
		CustomerID:    o.CustomerID,
		Items:         items,
		SubtotalCents: int64(o.Subtotal),
		TaxCents:      int64(o.Tax),
		DiscountCents: int64(o.Discount),
		TotalCents:    int64(o.Total),
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt.UTC(),
		UpdatedAt:     o.UpdatedAt.UTC(),
	}
}

func decodeOrder(snap *firestore.DocumentSnapshot) (domain.Order, error) {
	var d orderDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Order{}, err
	}

	items := make([]domain.OrderItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     money.Cents(item.PriceCents),
			Subtotal:  money.Cents(item.SubtotalCents),
		})
	}

	return domain.Order{
		ID:            snap.Ref.ID,
		OrderNumber:   d.OrderNumber,
		CustomerID:    d.CustomerID,
		Items:         items,
		Subtotal:      money.Cents(d.SubtotalCents),
		Tax:           money.Cents(d.TaxCents),
		Discount:      money.Cents(d.DiscountCents),
		Total:         money.Cents(d.TotalCents),
		Status:        domain.OrderStatus(d.Status),
		PaymentStatus: domain.PaymentStatus(d.PaymentStatus),
		PaymentMethod: domain.PaymentMethod(d.PaymentMethod),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

type orderRepo struct {
	scope
}

func (r *orderRepo) ref(id string) *firestore.DocumentRef {
	return r.col(ordersCollection).Doc(id)
}

func (r *orderRepo) Create(ctx context.Context, order domain.Order) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		q := sc.col(ordersCollection).Where("orderNumber", "==", order.OrderNumber).Limit(1)
		dupes, err := queryDocs(ctx, sc, ordersCollection, q, decodeOrder, func(o domain.Order) bool {
			return o.OrderNumber == order.OrderNumber
		})
		if err != nil {
			return err
		}
		if len(dupes) > 0 {
			return &domain.ConflictError{Entity: "Order", Field: "orderNumber", Value: order.OrderNumber}
		}

		order.Items = append([]domain.OrderItem(nil), order.Items...)
		sc.create(r.ref(order.ID), order, toOrderDoc(order))
		return nil
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeOrder)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("Order", id)
	}
	order.Items = append([]domain.OrderItem(nil), order.Items...)
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, filter ports.OrderFilter) (ports.ListResult[domain.Order], error) {
	q := r.col(ordersCollection).Query
	if filter.CustomerID != "" {
		q = q.Where("customerId", "==", filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.PaymentStatus != "" {
		q = q.Where("paymentStatus", "==", string(filter.PaymentStatus))
	}

	orders, err := queryDocs(ctx, r.scope, ordersCollection, q, decodeOrder, filter.Match)
	if err != nil {
		return ports.ListResult[domain.Order]{}, err
	}

	matched := orders[:0]
	for _, o := range orders {
		if filter.Match(o) {
			matched = append(matched, o)
		}
	}
	sortOrders(matched)
	return ports.Paginate(matched, filter.Page), nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	q := r.col(ordersCollection).Where("customerId", "==", customerID)
	orders, err := queryDocs(ctx, r.scope, ordersCollection, q, decodeOrder, func(o domain.Order) bool {
		return o.CustomerID == customerID
	})
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	sortOrders(orders)
	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, order domain.Order) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		existing, ok, err := getDoc(ctx, sc, r.ref(order.ID), decodeOrder)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Order", order.ID)
		}

		existing.Status = order.Status
		existing.PaymentStatus = order.PaymentStatus
		existing.PaymentMethod = order.PaymentMethod
		existing.Notes = order.Notes
		existing.UpdatedAt = order.UpdatedAt
		sc.set(r.ref(order.ID), existing, toOrderDoc(existing))
		return nil
	})
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		_, ok, err := getDoc(ctx, sc, r.ref(id), decodeOrder)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Order", id)
		}
		sc.remove(r.ref(id))
		return nil
	})
}

func sortOrders(orders []domain.Order) {
	ports.SortNewestFirst(orders, func(o domain.Order) (time.Time, string) { return o.CreatedAt, o.ID })
}
