package adapters

import (
	"context"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/database"
	"github.com/dejobratic/backoffice/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// observe wraps one store call in a span and records its duration under operation.
func observe[T any](ctx context.Context, m *database.Metrics, operation string, fn func(context.Context) (T, error), attrs ...attribute.KeyValue) (T, error) {
	ctx, span := telemetry.StartSpan(ctx, "Store."+operation)
	defer span.End()

	telemetry.AddSpanAttributes(span, append(attrs, attribute.String("operation", operation))...)

	start := time.Now()
	result, err := fn(ctx)
	m.RecordQuery(ctx, operation, time.Since(start).Seconds(), err)

	if err != nil {
		telemetry.FinishSpan(span, err)
		return result, err
	}
	telemetry.FinishSpan(span, nil)
	return result, nil
}

func observeErr(ctx context.Context, m *database.Metrics, operation string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	_, err := observe(ctx, m, operation, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	}, attrs...)
	return err
}

func idAttr(key, id string) attribute.KeyValue {
	return attribute.String(key, id)
}

func pageAttrs(page ports.Page) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int("page", page.Number), attribute.Int("limit", page.Limit)}
}

// ObservableStore traces and times every store call, including calls made inside transactions.
type ObservableStore struct {
	store   ports.Store
	metrics *database.Metrics
}

func NewObservableStore(store ports.Store, metrics *database.Metrics) *ObservableStore {
	return &ObservableStore{store: store, metrics: metrics}
}

func (s *ObservableStore) Products() ports.ProductRepository {
	return &observableProducts{repo: s.store.Products(), metrics: s.metrics}
}

func (s *ObservableStore) Customers() ports.CustomerRepository {
	return &observableCustomers{repo: s.store.Customers(), metrics: s.metrics}
}

func (s *ObservableStore) Orders() ports.OrderRepository {
	return &observableOrders{repo: s.store.Orders(), metrics: s.metrics}
}

func (s *ObservableStore) Users() ports.UserRepository {
	return &observableUsers{repo: s.store.Users(), metrics: s.metrics}
}

func (s *ObservableStore) WithinTx(ctx context.Context, fn ports.TxFunc) error {
	return observeErr(ctx, s.metrics, "within_tx", func(ctx context.Context) error {
		return s.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
			return fn(ctx, observableRepos{repos: repos, metrics: s.metrics})
		})
	})
}

func (s *ObservableStore) Ping(ctx context.Context) error {
	return observeErr(ctx, s.metrics, "ping", s.store.Ping)
}

type observableRepos struct {
	repos   ports.Repositories
	metrics *database.Metrics
}

func (r observableRepos) Products() ports.ProductRepository {
	return &observableProducts{repo: r.repos.Products(), metrics: r.metrics}
}

func (r observableRepos) Customers() ports.CustomerRepository {
	return &observableCustomers{repo: r.repos.Customers(), metrics: r.metrics}
}

func (r observableRepos) Orders() ports.OrderRepository {
	return &observableOrders{repo: r.repos.Orders(), metrics: r.metrics}
}

func (r observableRepos) Users() ports.UserRepository {
	return &observableUsers{repo: r.repos.Users(), metrics: r.metrics}
}

type observableProducts struct {
	repo    ports.ProductRepository
	metrics *database.Metrics
}

func (o *observableProducts) Create(ctx context.Context, product domain.Product) error {
	return observeErr(ctx, o.metrics, "create_product", func(ctx context.Context) error {
		return o.repo.Create(ctx, product)
	}, idAttr("product.id", product.ID), attribute.String("product.sku", product.SKU))
}

func (o *observableProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return observe(ctx, o.metrics, "get_product", func(ctx context.Context) (*domain.Product, error) {
		return o.repo.GetByID(ctx, id)
	}, idAttr("product.id", id))
}

func (o *observableProducts) GetMany(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	return observe(ctx, o.metrics, "get_many_products", func(ctx context.Context) (map[string]domain.Product, error) {
		return o.repo.GetMany(ctx, ids)
	}, attribute.Int("ids", len(ids)))
}

func (o *observableProducts) List(ctx context.Context, filter ports.ProductFilter) (ports.ListResult[domain.Product], error) {
	return observe(ctx, o.metrics, "list_products", func(ctx context.Context) (ports.ListResult[domain.Product], error) {
		return o.repo.List(ctx, filter)
	}, pageAttrs(filter.Page)...)
}

func (o *observableProducts) ListActive(ctx context.Context) ([]domain.Product, error) {
	return observe(ctx, o.metrics, "list_active_products", o.repo.ListActive)
}

func (o *observableProducts) Update(ctx context.Context, product domain.Product) error {
	return observeErr(ctx, o.metrics, "update_product", func(ctx context.Context) error {
		return o.repo.Update(ctx, product)
	}, idAttr("product.id", product.ID))
}

func (o *observableProducts) Delete(ctx context.Context, id string) error {
	return observeErr(ctx, o.metrics, "delete_product", func(ctx context.Context) error {
		return o.repo.Delete(ctx, id)
	}, idAttr("product.id", id))
}

func (o *observableProducts) AdjustStock(ctx context.Context, id string, adj domain.StockAdjustment) (domain.StockChange, error) {
	return observe(ctx, o.metrics, "adjust_stock", func(ctx context.Context) (domain.StockChange, error) {
		return o.repo.AdjustStock(ctx, id, adj)
	}, idAttr("product.id", id), attribute.String("stock.operation", string(adj.Operation)), attribute.Int64("stock.quantity", adj.Quantity))
}

func (o *observableProducts) ReserveStock(ctx context.Context, id string, qty int64) (*domain.Product, error) {
	return observe(ctx, o.metrics, "reserve_stock", func(ctx context.Context) (*domain.Product, error) {
		product, err := o.repo.ReserveStock(ctx, id, qty)
		if err == nil {
			telemetry.AddSpanEvent(trace.SpanFromContext(ctx), "stock.reserved",
				attribute.Int64("stock.remaining", product.Stock))
		}
		return product, err
	}, idAttr("product.id", id), attribute.Int64("stock.quantity", qty))
}

type observableCustomers struct {
	repo    ports.CustomerRepository
	metrics *database.Metrics
}

func (o *observableCustomers) Create(ctx context.Context, customer domain.Customer) error {
	return observeErr(ctx, o.metrics, "create_customer", func(ctx context.Context) error {
		return o.repo.Create(ctx, customer)
	}, idAttr("customer.id", customer.ID))
}

func (o *observableCustomers) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return observe(ctx, o.metrics, "get_customer", func(ctx context.Context) (*domain.Customer, error) {
		return o.repo.GetByID(ctx, id)
	}, idAttr("customer.id", id))
}

func (o *observableCustomers) GetForUpdate(ctx context.Context, id string) (*domain.Customer, error) {
	return observe(ctx, o.metrics, "get_customer_for_update", func(ctx context.Context) (*domain.Customer, error) {
		return o.repo.GetForUpdate(ctx, id)
	}, idAttr("customer.id", id))
}

func (o *observableCustomers) GetMany(ctx context.Context, ids []string) (map[string]domain.Customer, error) {
	return observe(ctx, o.metrics, "get_many_customers", func(ctx context.Context) (map[string]domain.Customer, error) {
		return o.repo.GetMany(ctx, ids)
	}, attribute.Int("ids", len(ids)))
}

func (o *observableCustomers) List(ctx context.Context, filter ports.CustomerFilter) (ports.ListResult[domain.Customer], error) {
	return observe(ctx, o.metrics, "list_customers", func(ctx context.Context) (ports.ListResult[domain.Customer], error) {
		return o.repo.List(ctx, filter)
	}, pageAttrs(filter.Page)...)
}

func (o *observableCustomers) Update(ctx context.Context, customer domain.Customer) error {
	return observeErr(ctx, o.metrics, "update_customer", func(ctx context.Context) error {
		return o.repo.Update(ctx, customer)
	}, idAttr("customer.id", customer.ID))
}

func (o *observableCustomers) UpdateStats(ctx context.Context, id string, stats domain.CustomerStats) error {
	return observeErr(ctx, o.metrics, "update_customer_stats", func(ctx context.Context) error {
		return o.repo.UpdateStats(ctx, id, stats)
	}, idAttr("customer.id", id), attribute.Int64("customer.total_orders", stats.TotalOrders))
}

func (o *observableCustomers) Delete(ctx context.Context, id string) error {
	return observeErr(ctx, o.metrics, "delete_customer", func(ctx context.Context) error {
		return o.repo.Delete(ctx, id)
	}, idAttr("customer.id", id))
}

type observableOrders struct {
	repo    ports.OrderRepository
	metrics *database.Metrics
}

func (o *observableOrders) Create(ctx context.Context, order domain.Order) error {
	return observeErr(ctx, o.metrics, "create_order", func(ctx context.Context) error {
		return o.repo.Create(ctx, order)
	}, idAttr("order.id", order.ID), attribute.Int("order.items", len(order.Items)))
}

func (o *observableOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return observe(ctx, o.metrics, "get_order", func(ctx context.Context) (*domain.Order, error) {
		return o.repo.GetByID(ctx, id)
	}, idAttr("order.id", id))
}

func (o *observableOrders) List(ctx context.Context, filter ports.OrderFilter) (ports.ListResult[domain.Order], error) {
	attrs := pageAttrs(filter.Page)
	if filter.Status != "" {
		attrs = append(attrs, attribute.String("status", string(filter.Status)))
	}
	return observe(ctx, o.metrics, "list_orders", func(ctx context.Context) (ports.ListResult[domain.Order], error) {
		return o.repo.List(ctx, filter)
	}, attrs...)
}

func (o *observableOrders) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	return observe(ctx, o.metrics, "list_orders_by_customer", func(ctx context.Context) ([]domain.Order, error) {
		return o.repo.ListByCustomer(ctx, customerID)
	}, idAttr("customer.id", customerID))
}

func (o *observableOrders) Update(ctx context.Context, order domain.Order) error {
	return observeErr(ctx, o.metrics, "update_order", func(ctx context.Context) error {
		return o.repo.Update(ctx, order)
	}, idAttr("order.id", order.ID), attribute.String("order.status", string(order.Status)))
}

func (o *observableOrders) Delete(ctx context.Context, id string) error {
	return observeErr(ctx, o.metrics, "delete_order", func(ctx context.Context) error {
		return o.repo.Delete(ctx, id)
	}, idAttr("order.id", id))
}

type observableUsers struct {
	repo    ports.UserRepository
	metrics *database.Metrics
}

func (o *observableUsers) Create(ctx context.Context, user domain.User) error {
	return observeErr(ctx, o.metrics, "create_user", func(ctx context.Context) error {
		return o.repo.Create(ctx, user)
	}, idAttr("user.id", user.ID))
}

func (o *observableUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return observe(ctx, o.metrics, "get_user", func(ctx context.Context) (*domain.User, error) {
		return o.repo.GetByID(ctx, id)
	}, idAttr("user.id", id))
}

func (o *observableUsers) List(ctx context.Context, filter ports.UserFilter) (ports.ListResult[domain.User], error) {
	return observe(ctx, o.metrics, "list_users", func(ctx context.Context) (ports.ListResult[domain.User], error) {
		return o.repo.List(ctx, filter)
	}, pageAttrs(filter.Page)...)
}

func (o *observableUsers) Update(ctx context.Context, user domain.User) error {
	return observeErr(ctx, o.metrics, "update_user", func(ctx context.Context) error {
		return o.repo.Update(ctx, user)
	}, idAttr("user.id", user.ID))
}

func (o *observableUsers) Delete(ctx context.Context, id string) error {
	return observeErr(ctx, o.metrics, "delete_user", func(ctx context.Context) error {
		return o.repo.Delete(ctx, id)
	}, idAttr("user.id", id))
}
