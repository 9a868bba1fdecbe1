package commands_test

import (
	"context"
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebuildCustomerStatsAfterDelete(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "C")
	f.product(t, "A", 1000, 10)
	first := placeOrder(t, f, commands.OrderLine{ProductID: "A", Quantity: 1})
	placeOrder(t, f, commands.OrderLine{ProductID: "A", Quantity: 2})

	del := commands.NewDeleteOrderCommandHandler(f.store, f.events, discardLogger())
	_, err := del.Handle(context.Background(), commands.DeleteOrderCommand{OrderID: first.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), f.stats(t, "C").TotalOrders)

	rebuild := commands.NewRebuildCustomerStatsCommandHandler(f.store)
	customer, err := rebuild.Handle(context.Background(), commands.RebuildCustomerStatsCommand{CustomerID: "C"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), customer.TotalOrders)
	assert.Equal(t, int64(2000), int64(customer.TotalSpent))
	assert.Equal(t, customer.CustomerStats, f.stats(t, "C"))
}

func TestRebuildCustomerStatsUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	rebuild := commands.NewRebuildCustomerStatsCommandHandler(f.store)

	_, err := rebuild.Handle(context.Background(), commands.RebuildCustomerStatsCommand{CustomerID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
