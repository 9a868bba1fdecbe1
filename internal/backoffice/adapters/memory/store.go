package memory

import (
	"context"
	"sync"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type dataset struct {
	products  map[string]domain.Product
	customers map[string]domain.Customer
	orders    map[string]domain.Order
	users     map[string]domain.User
}

func newDataset() *dataset {
	return &dataset{
		products:  make(map[string]domain.Product),
		customers: make(map[string]domain.Customer),
		orders:    make(map[string]domain.Order),
		users:     make(map[string]domain.User),
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.orders {
		v.Items = append([]domain.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	return c
}

// Store keeps every collection in process memory. It is used for local development and tests.
// Transactions hold the write lock, work on a copy and swap it in on success.
type Store struct {
	mu   sync.RWMutex
	data *dataset
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

func (s *Store) Products() ports.ProductRepository   { return &productRepo{scope{store: s}} }
func (s *Store) Customers() ports.CustomerRepository { return &customerRepo{scope{store: s}} }
func (s *Store) Orders() ports.OrderRepository       { return &orderRepo{scope{store: s}} }
func (s *Store) Users() ports.UserRepository         { return &userRepo{scope{store: s}} }

// WithinTx runs fn against a private copy of the data and commits it only when fn succeeds.
func (s *Store) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.data.clone()
	if err := fn(ctx, txRepos{scope{store: s, tx: working}}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.data = working
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// scope resolves which dataset a repository call works on.
type scope struct {
	store *Store
	tx    *dataset
}

func (sc scope) read() (*dataset, func()) {
	if sc.tx != nil {
		return sc.tx, func() {}
	}
	sc.store.mu.RLock()
	return sc.store.data, sc.store.mu.RUnlock
}

func (sc scope) write() (*dataset, func()) {
	if sc.tx != nil {
		return sc.tx, func() {}
	}
	sc.store.mu.Lock()
	return sc.store.data, sc.store.mu.Unlock
}

type txRepos struct {
	sc scope
}

func (t txRepos) Products() ports.ProductRepository   { return &productRepo{t.sc} }
func (t txRepos) Customers() ports.CustomerRepository { return &customerRepo{t.sc} }
func (t txRepos) Orders() ports.OrderRepository       { return &orderRepo{t.sc} }
func (t txRepos) Users() ports.UserRepository         { return &userRepo{t.sc} }
