package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const productColumns = `id, name, description, sku, category, price_cents, cost_cents, stock, unit, status, created_at, updated_at`

type productRepo struct {
	q querier
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SKU,
		&p.Category,
		&p.Price,
		&p.Cost,
		&p.Stock,
		&p.Unit,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func (r *productRepo) Create(ctx context.Context, p domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.SKU,
		p.Category,
		p.Price,
		p.Cost,
		p.Stock,
		p.Unit,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "Product", "insert")
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("Product", id)
		}
		return nil, fmt.Errorf("select product: %w", err)
	}
	return &p, nil
}

func (r *productRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	found := make(map[string]domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		found[p.ID] = p
	}
	return found, nil
}

func (r *productRepo) List(ctx context.Context, filter ports.ProductFilter) (ports.ListResult[domain.Product], error) {
	w := &where{}
	w.addIf(filter.Category != "", "category = ?", filter.Category)
	w.addIf(filter.Status != "", "status = ?", filter.Status)
	w.search(filter.Search, "name", "sku", "description")

	total, err := count(ctx, r.q, "products", w)
	if err != nil {
		return ports.ListResult[domain.Product]{}, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + w.sql() + w.page(filter.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return ports.ListResult[domain.Product]{}, fmt.Errorf("query products: %w", err)
	}
	products, err := collectProducts(rows)
	if err != nil {
		return ports.ListResult[domain.Product]{}, err
	}
	return ports.ListResult[domain.Product]{Items: products, Total: total}, nil
}

func (r *productRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query, domain.ProductActive)
	if err != nil {
		return nil, fmt.Errorf("query active products: %w", err)
	}
	return collectProducts(rows)
}

func (r *productRepo) Update(ctx context.Context, p domain.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, sku = $4, category = $5, price_cents = $6,
		    cost_cents = $7, unit = $8, status = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.SKU,
		p.Category,
		p.Price,
		p.Cost,
		p.Unit,
		p.Status,
		p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "Product", "update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Product", p.ID)
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Product", id)
	}
	return nil
}

// AdjustStock locks the row, computes the clamped level in SQL and returns the previous level.
func (r *productRepo) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (domain.StockChange, error) {
	query := `
		WITH prev AS (
			SELECT id, stock FROM products WHERE id = $1 FOR UPDATE
		)
		UPDATE products p
		SET stock = GREATEST(0, CASE $2::text
				WHEN 'add' THEN prev.stock + $3::bigint
				WHEN 'subtract' THEN prev.stock - $3::bigint
				ELSE $3::bigint
			END),
			updated_at = now()
		FROM prev
		WHERE p.id = prev.id
		RETURNING prev.stock, p.id, p.name, p.description, p.sku, p.category, p.price_cents,
			p.cost_cents, p.stock, p.unit, p.status, p.created_at, p.updated_at
	`

	var change domain.StockChange
	p := &change.Product
	err := r.q.QueryRow(ctx, query, id, string(adj.Normalized().Operation), adj.Quantity).Scan(
		&change.Previous,
		&p.ID,
		&p.Name,
		&p.Description,
		&p.SKU,
		&p.Category,
		&p.Price,
		&p.Cost,
		&p.Stock,
		&p.Unit,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StockChange{}, domain.NewNotFound("Product", id)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == numericValueOutOfRange {
			return domain.StockChange{}, domain.NewValidationError("stock", "Resulting stock is out of range")
		}
		return domain.StockChange{}, fmt.Errorf("adjust stock: %w", err)
	}
	return change, nil
}

// ReserveStock decrements with a conditional UPDATE so concurrent orders cannot oversell.
func (r *productRepo) ReserveStock(ctx context.Context, id string, qty int64) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING ` + productColumns

	p, err := scanProduct(r.q.QueryRow(ctx, query, id, qty))
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reserve stock: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, &domain.InsufficientStockError{
		ProductID:   current.ID,
		ProductName: current.Name,
		Available:   current.Stock,
		Requested:   qty,
	}
}
