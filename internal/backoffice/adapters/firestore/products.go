package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/money"
)

type productDoc struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	SKU         string    `firestore:"sku"`
	Category    string    `firestore:"category"`
	PriceCents  int64     `firestore:"priceCents"`
	CostCents   int64     `firestore:"costCents"`
	Stock       int64     `firestore:"stock"`
	Unit        string    `firestore:"unit"`
	Status      string    `firestore:"status"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func toProductDoc(p domain.Product) productDoc {
	return productDoc{
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Category:    p.Category,
		PriceCents:  int64(p.Price),
		CostCents:   int64(p.Cost),
		Stock:       p.Stock,
		Unit:        string(p.Unit),
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func decodeProduct(snap *firestore.DocumentSnapshot) (domain.Product, error) {
	var d productDoc
	if err := snap.DataTo(&d); err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:          snap.Ref.ID,
		Name:        d.Name,
		Description: d.Description,
		SKU:         d.SKU,
		Category:    d.Category,
		Price:       money.Cents(d.PriceCents),
		Cost:        money.Cents(d.CostCents),
		Stock:       d.Stock,
		Unit:        domain.Unit(d.Unit),
		Status:      domain.ProductStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

type productRepo struct {
	scope
}

func (r *productRepo) ref(id string) *firestore.DocumentRef {
	return r.col(productsCollection).Doc(id)
}

func (r *productRepo) Create(ctx context.Context, product domain.Product) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		if err := skuTaken(ctx, sc, product.SKU, product.ID); err != nil {
			return err
		}
		sc.create(r.ref(product.ID), product, toProductDoc(product))
		return nil
	})
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeProduct)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewNotFound("Product", id)
	}
	return &product, nil
}

func (r *productRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if _, seen := found[id]; seen {
			continue
		}
		product, ok, err := getDoc(ctx, r.scope, r.ref(id), decodeProduct)
		if err != nil {
			return nil, err
		}
		if ok {
			found[id] = product
		}
	}
	return found, nil
}

func (r *productRepo) List(ctx context.Context, filter ports.ProductFilter) (ports.ListResult[domain.Product], error) {
	q := r.col(productsCollection).Query
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}

	products, err := queryDocs(ctx, r.scope, productsCollection, q, decodeProduct, filter.Match)
	if err != nil {
		return ports.ListResult[domain.Product]{}, err
	}

	// search is a substring match, which Firestore cannot express
	matched := products[:0]
	for _, p := range products {
		if filter.Match(p) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched)
	return ports.Paginate(matched, filter.Page), nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	q := r.col(productsCollection).Where("status", "==", string(domain.ProductActive))
	products, err := queryDocs(ctx, r.scope, productsCollection, q, decodeProduct, domain.Product.IsActive)
	if err != nil {
		return nil, err
	}
	active := []domain.Product{}
	for _, p := range products {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	sortProducts(active)
	return active, nil
}

func (r *productRepo) Update(ctx context.Context, product domain.Product) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		existing, ok, err := getDoc(ctx, sc, r.ref(product.ID), decodeProduct)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Product", product.ID)
		}
		if err := skuTaken(ctx, sc, product.SKU, product.ID); err != nil {
			return err
		}

		product.Stock = existing.Stock
		product.CreatedAt = existing.CreatedAt
		sc.set(r.ref(product.ID), product, toProductDoc(product))
		return nil
	})
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	return r.mutate(ctx, func(ctx context.Context, sc scope) error {
		_, ok, err := getDoc(ctx, sc, r.ref(id), decodeProduct)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Product", id)
		}
		sc.remove(r.ref(id))
		return nil
	})
}

func (r *productRepo) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (domain.StockChange, error) {
	var change domain.StockChange
	err := r.mutate(ctx, func(ctx context.Context, sc scope) error {
		product, ok, err := getDoc(ctx, sc, r.ref(id), decodeProduct)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Product", id)
		}

		previous := product.Stock
		next, err := adj.Apply(previous)
		if err != nil {
			return err
		}
		product.Stock = next
		product.UpdatedAt = time.Now().UTC()
		sc.set(r.ref(id), product, toProductDoc(product))

		change = domain.StockChange{Product: product, Previous: previous}
		return nil
	})
	if err != nil {
		return domain.StockChange{}, err
	}
	return change, nil
}

func (r *productRepo) ReserveStock(ctx context.Context, id string, qty int64) (*domain.Product, error) {
	var reserved domain.Product
	err := r.mutate(ctx, func(ctx context.Context, sc scope) error {
		product, ok, err := getDoc(ctx, sc, r.ref(id), decodeProduct)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NewNotFound("Product", id)
		}
		if product.Stock < qty {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   qty,
			}
		}

		product.Stock -= qty
		product.UpdatedAt = time.Now().UTC()
		sc.set(r.ref(id), product, toProductDoc(product))

		reserved = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reserved, nil
}

func skuTaken(ctx context.Context, sc scope, sku, exceptID string) error {
	q := sc.col(productsCollection).Where("sku", "==", sku).Limit(2)
	matches, err := queryDocs(ctx, sc, productsCollection, q, decodeProduct, func(p domain.Product) bool { return p.SKU == sku })
	if err != nil {
		return err
	}
	for _, p := range matches {
		if p.ID != exceptID && p.SKU == sku {
			return &domain.ConflictError{Entity: "Product", Field: "sku", Value: sku}
		}
	}
	return nil
}

func sortProducts(products []domain.Product) {
	ports.SortNewestFirst(products, func(p domain.Product) (time.Time, string) { return p.CreatedAt, p.ID })
}
