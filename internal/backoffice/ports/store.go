package ports

import (
	"context"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

// ProductRepository persists catalog entries and owns every stock mutation.
type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error)
	List(ctx context.Context, filter ProductFilter) (ListResult[domain.Product], error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	// Update persists editable fields. Stock and CreatedAt are left untouched.
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
	// AdjustStock applies a stock ledger operation atomically for one product.
	AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (domain.StockChange, error)
	// ReserveStock decrements stock by qty only when stock >= qty. It returns the
	// product after the decrement, or an *domain.InsufficientStockError.
	ReserveStock(ctx context.Context, id string, qty int64) (*domain.Product, error)
}

// CustomerRepository persists customers and their order aggregates.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// GetForUpdate reads a customer and holds it until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Customer, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error)
	List(ctx context.Context, filter CustomerFilter) (ListResult[domain.Customer], error)
	// Update persists contact fields. Stats and CreatedAt are left untouched.
	Update(ctx context.Context, customer domain.Customer) error
	UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository persists orders. Items and totals are written once on Create.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter OrderFilter) (ListResult[domain.Order], error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	// Update persists status, paymentStatus, paymentMethod, notes and UpdatedAt.
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id string) error
}

// UserRepository persists staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) (ListResult[domain.User], error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
}

// Repositories groups the collections of one store, either top-level or inside a transaction.
type Repositories interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Orders() OrderRepository
	Users() UserRepository
}

// TxFunc runs against repositories bound to a single transaction.
type TxFunc func(ctx context.Context, repos Repositories) error

// Store is the persistence boundary. WithinTx commits only when fn returns nil;
// any error rolls back every write made through repos.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn TxFunc) error
	Ping(ctx context.Context) error
}
