package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

type RebuildCustomerStatsCommand struct {
	CustomerID string
}

// RebuildCustomerStatsCommandHandler recomputes a customer's aggregates from the orders
// still on record.
type RebuildCustomerStatsCommandHandler struct {
	store ports.Store
}

func NewRebuildCustomerStatsCommandHandler(store ports.Store) *RebuildCustomerStatsCommandHandler {
	return &RebuildCustomerStatsCommandHandler{store: store}
}

func (h *RebuildCustomerStatsCommandHandler) Handle(ctx context.Context, cmd RebuildCustomerStatsCommand) (*domain.Customer, error) {
	id := strings.TrimSpace(cmd.CustomerID)
	if id == "" {
		return nil, domain.NewValidationError("id", "Customer id is required")
	}

	var rebuilt domain.Customer
	err := h.store.WithinTx(ctx, func(ctx context.Context, repos ports.Repositories) error {
		customer, err := repos.Customers().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		orders, err := repos.Orders().ListByCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("list customer orders: %w", err)
		}

		if customer.CustomerStats, err = domain.RebuildCustomerStats(orders); err != nil {
			return err
		}
		if err := repos.Customers().UpdateStats(ctx, id, customer.CustomerStats); err != nil {
			return fmt.Errorf("update customer stats: %w", err)
		}

		rebuilt = *customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rebuilt, nil
}
