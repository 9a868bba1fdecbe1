package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

const (
	selectResponse = `SELECT status_code, body, order_id FROM idempotency_keys WHERE key = @key`

	// first write wins; a replayed request never overwrites the stored response
	insertResponse = `
		INSERT INTO idempotency_keys (key, status_code, body, order_id)
		VALUES (@key, @status, @body, NULLIF(@order_id, ''))
		ON CONFLICT (key) DO NOTHING`
)

// Store keeps order-placement responses in the idempotency_keys table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns nil, nil for an unknown key.
func (s *Store) Get(ctx context.Context, key string) (*ports.StoredResponse, error) {
	rows, err := s.pool.Query(ctx, selectResponse, pgx.NamedArgs{"key": key})
	if err != nil {
		return nil, fmt.Errorf("select idempotency key: %w", err)
	}
	stored, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (ports.StoredResponse, error) {
		var (
			resp    ports.StoredResponse
			orderID *string
		)
		if err := row.Scan(&resp.StatusCode, &resp.Body, &orderID); err != nil {
			return resp, err
		}
		if orderID != nil {
			resp.OrderID = *orderID
		}
		return resp, nil
	})
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("scan idempotency key: %w", err)
	}
	return &stored, nil
}

func (s *Store) Save(ctx context.Context, key string, response ports.StoredResponse) error {
	args := pgx.NamedArgs{
		"key":      key,
		"status":   response.StatusCode,
		"body":     response.Body,
		"order_id": response.OrderID,
	}
	if _, err := s.pool.Exec(ctx, insertResponse, args); err != nil {
		return fmt.Errorf("insert idempotency key: %w", err)
	}
	return nil
}
