// Package seed loads YAML fixtures into an empty store through the application service.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dejobratic/backoffice/internal/backoffice/app"
	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/app/queries"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/money"
)

// Fixtures is the document layout of a seed file. Orders refer to customers by
// email and to products by SKU, since ids are assigned on creation.
type Fixtures struct {
	Users     []app.UserInput     `yaml:"users"`
	Products  []app.ProductInput  `yaml:"products"`
	Customers []app.CustomerInput `yaml:"customers"`
	Orders    []OrderFixture      `yaml:"orders"`
}

type OrderFixture struct {
	Customer      string               `yaml:"customer"`
	Items         []OrderLineFixture   `yaml:"items"`
	Tax           money.Cents          `yaml:"tax"`
	Discount      money.Cents          `yaml:"discount"`
	PaymentMethod domain.PaymentMethod `yaml:"paymentMethod"`
	PaymentStatus domain.PaymentStatus `yaml:"paymentStatus"`
	Status        domain.OrderStatus   `yaml:"status"`
	Notes         string               `yaml:"notes"`
}

type OrderLineFixture struct {
	SKU      string `yaml:"sku"`
	Quantity int64  `yaml:"quantity"`
}

// Service is the part of the application service seeding needs.
type Service interface {
	CreateUser(ctx context.Context, in app.UserInput) (*domain.User, error)
	CreateProduct(ctx context.Context, in app.ProductInput) (*domain.Product, error)
	CreateCustomer(ctx context.Context, in app.CustomerInput) (*domain.Customer, error)
	PlaceOrder(ctx context.Context, in app.PlaceOrderInput) (*queries.OrderView, error)
}

// Result counts what Apply created.
type Result struct {
	Users     int `json:"users"`
	Products  int `json:"products"`
	Customers int `json:"customers"`
	Orders    int `json:"orders"`
}

func LoadFile(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	fixtures, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fixtures, nil
}

// Load decodes fixtures. Unknown keys are rejected so typos do not silently drop data.
func Load(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var fixtures Fixtures
	if err := dec.Decode(&fixtures); err != nil && err != io.EOF {
		return nil, err
	}
	return &fixtures, nil
}

// Apply creates users, products and customers, then places orders. Placing an order
// reserves stock and updates customer aggregates exactly as the API would.
// It stops at the first failure; everything created before it stays.
func Apply(ctx context.Context, svc Service, fixtures *Fixtures) (Result, error) {
	var res Result

	for i, in := range fixtures.Users {
		if _, err := svc.CreateUser(ctx, in); err != nil {
			return res, fmt.Errorf("users[%d]: %w", i, err)
		}
		res.Users++
	}

	productIDs := make(map[string]string, len(fixtures.Products))
	for i, in := range fixtures.Products {
		product, err := svc.CreateProduct(ctx, in)
		if err != nil {
			return res, fmt.Errorf("products[%d]: %w", i, err)
		}
		productIDs[product.SKU] = product.ID
		res.Products++
	}

	customerIDs := make(map[string]string, len(fixtures.Customers))
	for i, in := range fixtures.Customers {
		customer, err := svc.CreateCustomer(ctx, in)
		if err != nil {
			return res, fmt.Errorf("customers[%d]: %w", i, err)
		}
		if customer.Email != "" {
			customerIDs[customer.Email] = customer.ID
		}
		res.Customers++
	}

	for i, fx := range fixtures.Orders {
		cmd, err := fx.command(customerIDs, productIDs)
		if err != nil {
			return res, fmt.Errorf("orders[%d]: %w", i, err)
		}
		if _, err := svc.PlaceOrder(ctx, cmd); err != nil {
			return res, fmt.Errorf("orders[%d]: %w", i, err)
		}
		res.Orders++
	}

	return res, nil
}

func (fx OrderFixture) command(customerIDs, productIDs map[string]string) (app.PlaceOrderInput, error) {
	customerID, ok := customerIDs[strings.ToLower(strings.TrimSpace(fx.Customer))]
	if !ok {
		return app.PlaceOrderInput{}, fmt.Errorf("unknown customer %q", fx.Customer)
	}

	lines := make([]commands.OrderLine, 0, len(fx.Items))
	for _, item := range fx.Items {
		productID, ok := productIDs[strings.TrimSpace(item.SKU)]
		if !ok {
			return app.PlaceOrderInput{}, fmt.Errorf("unknown product sku %q", item.SKU)
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	return app.PlaceOrderInput{
		CustomerID:    customerID,
		Items:         lines,
		Tax:           fx.Tax,
		Discount:      fx.Discount,
		PaymentMethod: fx.PaymentMethod,
		PaymentStatus: fx.PaymentStatus,
		Status:        fx.Status,
		Notes:         fx.Notes,
	}, nil
}
