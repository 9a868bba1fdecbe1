package queries

import (
	"context"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// OrderExpander loads the customers and products referenced by a batch of orders.
type OrderExpander struct {
	repos ports.Repositories
}

func NewOrderExpander(repos ports.Repositories) *OrderExpander {
	return &OrderExpander{repos: repos}
}

func (e *OrderExpander) Expand(ctx context.Context, orders []domain.Order, detail Detail) ([]OrderView, error) {
	customerIDs := make([]string, 0, len(orders))
	var productIDs []string
	seenCustomers := map[string]bool{}
	seenProducts := map[string]bool{}

	for _, o := range orders {
		if !seenCustomers[o.CustomerID] {
			seenCustomers[o.CustomerID] = true
			customerIDs = append(customerIDs, o.CustomerID)
		}
		for _, item := range o.Items {
			if !seenProducts[item.ProductID] {
				seenProducts[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	customers, err := e.repos.Customers().GetMany(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("load order customers: %w", err)
	}
	products, err := e.repos.Products().GetMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load order products: %w", err)
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o, customers, products, detail))
	}
	return views, nil
}
