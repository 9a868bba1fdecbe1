package queries

import (
	"context"
	"fmt"

	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type ListOrdersQuery struct {
	Filter ports.OrderFilter
}

type ListOrdersQueryHandler struct {
	repos    ports.Repositories
	expander *OrderExpander
}

func NewListOrdersQueryHandler(repos ports.Repositories) *ListOrdersQueryHandler {
	return &ListOrdersQueryHandler{repos: repos, expander: NewOrderExpander(repos)}
}

func (h *ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ports.ListResult[OrderView], error) {
	res, err := h.repos.Orders().List(ctx, query.Filter)
	if err != nil {
		return ports.ListResult[OrderView]{}, fmt.Errorf("list orders: %w", err)
	}

	views, err := h.expander.Expand(ctx, res.Items, DetailSummary)
	if err != nil {
		return ports.ListResult[OrderView]{}, err
	}
	return ports.ListResult[OrderView]{Items: views, Total: res.Total}, nil
}
