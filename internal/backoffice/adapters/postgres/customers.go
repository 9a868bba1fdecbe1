package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5"
)

const customerColumns = `id, name, email, phone, company, street, city, state, zip_code, country,
	customer_type, status, notes, total_orders, total_spent_cents, created_at, updated_at`

type customerRepo struct {
	q querier
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Company,
		&c.Address.Street,
		&c.Address.City,
		&c.Address.State,
		&c.Address.ZipCode,
		&c.Address.Country,
		&c.CustomerType,
		&c.Status,
		&c.Notes,
		&c.TotalOrders,
		&c.TotalSpent,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func collectCustomers(rows pgx.Rows) ([]domain.Customer, error) {
	defer rows.Close()
	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (r *customerRepo) Create(ctx context.Context, c domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.q.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Address.Street,
		c.Address.City,
		c.Address.State,
		c.Address.ZipCode,
		c.Address.Country,
		c.CustomerType,
		c.Status,
		c.Notes,
		c.TotalOrders,
		c.TotalSpent,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "Customer", "insert")
	}
	return nil
}

func (r *customerRepo) get(ctx context.Context, query, id string) (*domain.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("Customer", id)
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}
	return &c, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

func (r *customerRepo) GetForUpdate(ctx context.Context, id string) (*domain.Customer, error) {
	return r.get(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

func (r *customerRepo) GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	found := make(map[string]domain.Customer, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		found[c.ID] = c
	}
	return found, nil
}

func (r *customerRepo) List(ctx context.Context, filter ports.CustomerFilter) (ports.ListResult[domain.Customer], error) {
	w := &where{}
	w.addIf(filter.Status != "", "status = ?", filter.Status)
	w.addIf(filter.CustomerType != "", "customer_type = ?", filter.CustomerType)
	w.search(filter.Search, "name", "email", "phone", "company")

	total, err := count(ctx, r.q, "customers", w)
	if err != nil {
		return ports.ListResult[domain.Customer]{}, err
	}

	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers`+w.sql()+w.page(filter.Page), w.args...)
	if err != nil {
		return ports.ListResult[domain.Customer]{}, fmt.Errorf("query customers: %w", err)
	}
	customers, err := collectCustomers(rows)
	if err != nil {
		return ports.ListResult[domain.Customer]{}, err
	}
	return ports.ListResult[domain.Customer]{Items: customers, Total: total}, nil
}

func (r *customerRepo) Update(ctx context.Context, c domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, company = $5, street = $6, city = $7, state = $8,
		    zip_code = $9, country = $10, customer_type = $11, status = $12, notes = $13, updated_at = $14
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Phone,
		c.Company,
		c.Address.Street,
		c.Address.City,
		c.Address.State,
		c.Address.ZipCode,
		c.Address.Country,
		c.CustomerType,
		c.Status,
		c.Notes,
		c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "Customer", "update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Customer", c.ID)
	}
	return nil
}

func (r *customerRepo) UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error {
	query := `
		UPDATE customers
		SET total_orders = $2, total_spent_cents = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, id, stats.TotalOrders, stats.TotalSpent)
	if err != nil {
		return fmt.Errorf("update customer stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Customer", id)
	}
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("Customer", id)
	}
	return nil
}
