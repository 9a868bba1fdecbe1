package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, is_active, created_at, updated_at`

type userRepo struct {
	q querier
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *userRepo) Create(ctx context.Context, u domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "User", "insert")
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("User", id)
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, filter ports.UserFilter) (ports.ListResult[domain.User], error) {
	w := &where{}
	w.addIf(filter.Role != "", "role = ?", filter.Role)
	w.search(filter.Search, "name", "email")

	total, err := count(ctx, r.q, "users", w)
	if err != nil {
		return ports.ListResult[domain.User]{}, err
	}

	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users`+w.sql()+w.page(filter.Page), w.args...)
	if err != nil {
		return ports.ListResult[domain.User]{}, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return ports.ListResult[domain.User]{}, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return ports.ListResult[domain.User]{}, fmt.Errorf("iterate users: %w", err)
	}
	return ports.ListResult[domain.User]{Items: users, Total: total}, nil
}

func (r *userRepo) Update(ctx context.Context, u domain.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, role = $5, is_active = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActive, u.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "User", "update")
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("User", u.ID)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("User", id)
	}
	return nil
}
