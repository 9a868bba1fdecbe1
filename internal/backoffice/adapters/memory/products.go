package memory

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type productRepo struct {
	scope
}

func (r *productRepo) Create(_ context.Context, product domain.Product) error {
	d, done := r.write()
	defer done()

	if err := skuTaken(d, product.SKU, product.ID); err != nil {
		return err
	}
	d.products[product.ID] = product
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	d, done := r.read()
	defer done()

	product, ok := d.products[id]
	if !ok {
		return nil, domain.NewNotFound("Product", id)
	}
	return &product, nil
}

func (r *productRepo) GetMany(_ context.Context, ids []string) (map[string]domain.Product, error) {
	d, done := r.read()
	defer done()

	found := make(map[string]domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := d.products[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

func (r *productRepo) List(_ context.Context, filter ports.ProductFilter) (ports.ListResult[domain.Product], error) {
	d, done := r.read()
	defer done()

	var matched []domain.Product
	for _, product := range d.products {
		if filter.Match(product) {
			matched = append(matched, product)
		}
	}
	ports.SortNewestFirst(matched, func(p domain.Product) (time.Time, string) { return p.CreatedAt, p.ID })
	return ports.Paginate(matched, filter.Page), nil
}

func (r *productRepo) ListActive(_ context.Context) ([]domain.Product, error) {
	d, done := r.read()
	defer done()

	active := []domain.Product{}
	for _, product := range d.products {
		if product.IsActive() {
			active = append(active, product)
		}
	}
	ports.SortNewestFirst(active, func(p domain.Product) (time.Time, string) { return p.CreatedAt, p.ID })
	return active, nil
}

func (r *productRepo) Update(_ context.Context, product domain.Product) error {
	d, done := r.write()
	defer done()

	existing, ok := d.products[product.ID]
	if !ok {
		return domain.NewNotFound("Product", product.ID)
	}
	if err := skuTaken(d, product.SKU, product.ID); err != nil {
		return err
	}

	product.Stock = existing.Stock
	product.CreatedAt = existing.CreatedAt
	d.products[product.ID] = product
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	d, done := r.write()
	defer done()

	if _, ok := d.products[id]; !ok {
		return domain.NewNotFound("Product", id)
	}
	delete(d.products, id)
	return nil
}

func (r *productRepo) AdjustStock(_ context.Context, id string, adj domain.StockAdjustment) (domain.StockChange, error) {
	d, done := r.write()
	defer done()

	product, ok := d.products[id]
	if !ok {
		return domain.StockChange{}, domain.NewNotFound("Product", id)
	}

	previous := product.Stock
	next, err := adj.Apply(previous)
	if err != nil {
		return domain.StockChange{}, err
	}
	product.Stock = next
	product.UpdatedAt = time.Now().UTC()
	d.products[id] = product

	return domain.StockChange{Product: product, Previous: previous}, nil
}

func (r *productRepo) ReserveStock(_ context.Context, id string, qty int64) (*domain.Product, error) {
	d, done := r.write()
	defer done()

	product, ok := d.products[id]
	if !ok {
		return nil, domain.NewNotFound("Product", id)
	}
	if product.Stock < qty {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   qty,
		}
	}

	product.Stock -= qty
	product.UpdatedAt = time.Now().UTC()
	d.products[id] = product
	return &product, nil
}

func skuTaken(d *dataset, sku, exceptID string) error {
	for id, p := range d.products {
		if id != exceptID && p.SKU == sku {
			return &domain.ConflictError{Entity: "Product", Field: "sku", Value: sku}
		}
	}
	return nil
}
