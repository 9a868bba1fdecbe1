package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, order_number, customer_id, subtotal_cents, tax_cents, discount_cents, total_cents,
	status, payment_status, payment_method, notes, created_at, updated_at`

type orderRepo struct {
	q querier
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.Subtotal,
		&o.Tax,
		&o.Discount,
		&o.Total,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// Create writes the order header and its items in one batch inside a (sub)transaction.
func (r *orderRepo) Create(ctx context.Context, o domain.Order) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		batch.Queue(`
			INSERT INTO orders (`+orderColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			o.ID, o.OrderNumber, o.CustomerID, o.Subtotal, o.Tax, o.Discount, o.Total,
			o.Status, o.PaymentStatus, o.PaymentMethod, o.Notes, o.CreatedAt, o.UpdatedAt,
		)
		for i, item := range o.Items {
			batch.Queue(`
				INSERT INTO order_items (order_id, position, product_id, quantity, price_cents, subtotal_cents)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				o.ID, i, item.ProductID, item.Quantity, item.Price, item.Subtotal,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for range batch.Len() {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return mapWriteError(err, "Order", "insert")
			}
		}
		return results.Close()
	})
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("Order", id)
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	orders := []domain.Order{o}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepo) List(ctx context.Context, filter ports.OrderFilter) (ports.ListResult[domain.Order], error) {
	w := &where{}
	w.addIf(filter.Status != "", "status = ?", filter.Status)
	w.addIf(filter.PaymentStatus != "", "payment_status = ?", filter.PaymentStatus)
	w.addIf(filter.CustomerID != "", "customer_id = ?", filter.CustomerID)
	w.search(filter.Search, "order_number")

	total, err := count(ctx, r.q, "orders", w)
	if err != nil {
		return ports.ListResult[domain.Order]{}, err
	}

	orders, err := r.query(ctx, `SELECT `+orderColumns+` FROM orders`+w.sql()+w.page(filter.Page), w.args...)
	if err != nil {
		return ports.ListResult[domain.Order]{}, err
	}
	return ports.ListResult[domain.Order]{Items: orders, Total: total}, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query, customerID)
}

func (r *orderRepo) query(ctx context.Context, sql string, args ...any) ([]domain.Order, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	rows.Close()

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems fills Items for every order with one query.
func (r *orderRepo) loadItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	index := make(map[string]int, len(orders))
	ids := make([]string, len(orders))
	for i, o := range orders {
		index[o.ID] = i
		ids[i] = o.ID
		orders[i].Items = []domain.OrderItem{}
	}

	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, quantity, price_cents, subtotal_cents
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.Price, &item.Subtotal); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}
	return nil
}

func (r *orderRepo) Update(ctx context.Context, o domain.Order) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, payment_method = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, o.ID, o.Status, o.PaymentStatus, o.PaymentMethod, o.Notes, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Order", o.ID)
	}
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Order", id)
	}
	return nil
}
