package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store is the PostgreSQL implementation of ports.Store.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Products() ports.ProductRepository   { return &productRepo{q: s.pool} }
func (s *Store) Customers() ports.CustomerRepository { return &customerRepo{q: s.pool} }
func (s *Store) Orders() ports.OrderRepository       { return &orderRepo{q: s.pool} }
func (s *Store) Users() ports.UserRepository         { return &userRepo{q: s.pool} }

// WithinTx runs fn in a READ COMMITTED transaction. Row locks taken by GetForUpdate,
// ReserveStock and AdjustStock are held until commit.
func (s *Store) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(ctx, txRepos{q: tx})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

type txRepos struct {
	q querier
}

func (t txRepos) Products() ports.ProductRepository   { return &productRepo{q: t.q} }
func (t txRepos) Customers() ports.CustomerRepository { return &customerRepo{q: t.q} }
func (t txRepos) Orders() ports.OrderRepository       { return &orderRepo{q: t.q} }
func (t txRepos) Users() ports.UserRepository         { return &userRepo{q: t.q} }

const (
	uniqueViolation        = "23505"
	numericValueOutOfRange = "22003"
)

// mapWriteError turns a unique violation into a ConflictError naming the offending field.
func mapWriteError(err error, entity, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_"), "_key")
		return &domain.ConflictError{Entity: entity, Field: field}
	}
	return fmt.Errorf("%s %s: %w", action, strings.ToLower(entity), err)
}

// where accumulates AND-ed conditions with positional arguments. A "?" in a clause
// is replaced by the placeholder of the argument added with it.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) addIf(ok bool, clause string, arg any) {
	if ok {
		w.add(clause, arg)
	}
}

func (w *where) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, c+" ILIKE ?")
	}
	w.add("("+strings.Join(parts, " OR ")+")", "%"+escapeLike(term)+"%")
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT and OFFSET arguments and returns the clause.
func (w *where) page(p ports.Page) string {
	p = p.Normalize()
	w.args = append(w.args, p.Limit, p.Offset())
	return fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(w.args)-1, len(w.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func count(ctx context.Context, q querier, table string, w *where) (int, error) {
	var total int
	if err := q.QueryRow(ctx, "SELECT count(*) FROM "+table+w.sql(), w.args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return total, nil
}
