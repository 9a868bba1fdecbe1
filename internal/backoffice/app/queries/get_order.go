package queries

import (
	"context"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// GetOrderQuery represents a request to retrieve an order by its ID.
type GetOrderQuery struct {
	OrderID string
}

// Validate ensures the query has valid parameters.
func (q GetOrderQuery) Validate() error {
	if strings.TrimSpace(q.OrderID) == "" {
		return domain.NewValidationError("id", "Order id is required")
	}
	return nil
}

// GetOrderQueryHandler returns one order with its customer address and product stock expanded.
type GetOrderQueryHandler struct {
	repos    ports.Repositories
	expander *OrderExpander
}

func NewGetOrderQueryHandler(repos ports.Repositories) *GetOrderQueryHandler {
	return &GetOrderQueryHandler{repos: repos, expander: NewOrderExpander(repos)}
}

func (h *GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	order, err := h.repos.Orders().GetByID(ctx, strings.TrimSpace(query.OrderID))
	if err != nil {
		return nil, err
	}

	views, err := h.expander.Expand(ctx, []domain.Order{*order}, DetailFull)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
