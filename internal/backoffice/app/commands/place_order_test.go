package commands_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderWorkedExample(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "C")
	f.product(t, "A", 1000, 10)
	f.product(t, "B", 500, 10)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	order, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
		CustomerID: "C",
		Items: []commands.OrderLine{
			{ProductID: "A", Quantity: 2},
			{ProductID: "B", Quantity: 1},
		},
		Tax: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2500), int64(order.Subtotal))
	assert.Equal(t, int64(2600), int64(order.Total))
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)
	assert.NotEmpty(t, order.OrderNumber)

	assert.Equal(t, int64(8), f.stock(t, "A"))
	assert.Equal(t, int64(9), f.stock(t, "B"))

	stats := f.stats(t, "C")
	assert.Equal(t, int64(1), stats.TotalOrders)
	assert.Equal(t, int64(2600), int64(stats.TotalSpent))

	require.Len(t, f.events.placed, 1)
	assert.Equal(t, order.ID, f.events.placed[0].OrderID)
}

func TestPlaceOrderFreezesPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.customer(t, "C")
	f.product(t, "A", 1000, 10)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	order, err := handler.Handle(ctx, commands.PlaceOrderCommand{
		CustomerID: "C",
		Items:      []commands.OrderLine{{ProductID: "A", Quantity: 3}},
		Discount:   200,
	})
	require.NoError(t, err)

	p, err := f.store.Products().GetByID(ctx, "A")
	require.NoError(t, err)
	p.Price = 9999
	require.NoError(t, f.store.Products().Update(ctx, *p))

	stored, err := f.store.Orders().GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	item := stored.Items[0]
	assert.Equal(t, int64(1000), int64(item.Price))
	assert.Equal(t, int64(3000), int64(item.Subtotal))
	assert.Equal(t, stored.Subtotal+stored.Tax-stored.Discount, stored.Total)
	assert.Equal(t, int64(2800), int64(stored.Total))
}

func TestPlaceOrderRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "C")
	f.product(t, "A", 1000, 2)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
		CustomerID: "C",
		Items:      []commands.OrderLine{{ProductID: "A", Quantity: 3}},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Insufficient stock for product Product A. Available: 2", err.Error())
	assert.Equal(t, int64(2), f.stock(t, "A"))
	assert.Equal(t, domain.CustomerStats{}, f.stats(t, "C"))
	assert.Empty(t, f.events.placed)
}

func TestPlaceOrderRejectsAmountsOutOfRange(t *testing.T) {
	const maxCents = money.Cents(math.MaxInt64)

	tests := []struct {
		name      string
		price     money.Cents
		quantity  int64
		tax       money.Cents
		spent     money.Cents
		wantField string
	}{
		{name: "tax near the limit", price: 1000, quantity: 1, tax: maxCents - 5, wantField: "total"},
		{name: "price times quantity", price: maxCents/2 + 1, quantity: 2, wantField: "subtotal"},
		{name: "customer lifetime spend", price: 1000, quantity: 1, spent: maxCents - 500, wantField: "totalSpent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			f.customer(t, "C")
			f.product(t, "A", tt.price, 10)
			if tt.spent > 0 {
				require.NoError(t, f.store.Customers().UpdateStats(ctx, "C", domain.CustomerStats{TotalOrders: 1, TotalSpent: tt.spent}))
			}
			before := f.stats(t, "C")
			handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

			_, err := handler.Handle(ctx, commands.PlaceOrderCommand{
				CustomerID: "C",
				Items:      []commands.OrderLine{{ProductID: "A", Quantity: tt.quantity}},
				Tax:        tt.tax,
			})

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)

			assert.Equal(t, int64(10), f.stock(t, "A"))
			assert.Equal(t, before, f.stats(t, "C"))
			orders, err := f.store.Orders().ListByCustomer(ctx, "C")
			require.NoError(t, err)
			assert.Empty(t, orders)
			assert.Empty(t, f.events.placed)
		})
	}
}

func TestPlaceOrderRollsBackEarlierLines(t *testing.T) {
	tests := []struct {
		name    string
		second  commands.OrderLine
		wantErr error
	}{
		{
			name:    "missing product",
			second:  commands.OrderLine{ProductID: "ghost", Quantity: 1},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "insufficient stock",
			second:  commands.OrderLine{ProductID: "B", Quantity: 50},
			wantErr: domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.customer(t, "C")
			f.product(t, "A", 1000, 10)
			f.product(t, "B", 500, 5)
			handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

			_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
				CustomerID: "C",
				Items: []commands.OrderLine{
					{ProductID: "A", Quantity: 4},
					tt.second,
				},
			})
			require.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, int64(10), f.stock(t, "A"), "first line must be rolled back")
			assert.Equal(t, int64(5), f.stock(t, "B"))
			assert.Equal(t, domain.CustomerStats{}, f.stats(t, "C"))

			res, err := f.store.Orders().ListByCustomer(context.Background(), "C")
			require.NoError(t, err)
			assert.Empty(t, res)
		})
	}
}

func TestPlaceOrderRepeatedProductSeesOwnDecrement(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "C")
	f.product(t, "A", 1000, 5)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
		CustomerID: "C",
		Items: []commands.OrderLine{
			{ProductID: "A", Quantity: 3},
			{ProductID: "A", Quantity: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stock(t, "A"))
}

func TestPlaceOrderValidation(t *testing.T) {
	tests := []struct {
		name      string
		cmd       commands.PlaceOrderCommand
		wantField string
	}{
		{"missing customer", commands.PlaceOrderCommand{Items: []commands.OrderLine{{ProductID: "A", Quantity: 1}}}, "customer"},
		{"no items", commands.PlaceOrderCommand{CustomerID: "C"}, "items"},
		{"zero quantity", commands.PlaceOrderCommand{CustomerID: "C", Items: []commands.OrderLine{{ProductID: "A"}}}, "items[0].quantity"},
		{"missing product", commands.PlaceOrderCommand{CustomerID: "C", Items: []commands.OrderLine{{Quantity: 1}}}, "items[0].product"},
		{"negative tax", commands.PlaceOrderCommand{CustomerID: "C", Items: []commands.OrderLine{{ProductID: "A", Quantity: 1}}, Tax: -1}, "tax"},
		{"bad payment method", commands.PlaceOrderCommand{CustomerID: "C", Items: []commands.OrderLine{{ProductID: "A", Quantity: 1}}, PaymentMethod: "iou"}, "paymentMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

			_, err := handler.Handle(context.Background(), tt.cmd)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Fields))
			for _, fe := range verr.Fields {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestPlaceOrderUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A", 1000, 5)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
		CustomerID: "nobody",
		Items:      []commands.OrderLine{{ProductID: "A", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), f.stock(t, "A"))
}

func TestPlaceOrderSucceedsWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	f.events.err = errPublish
	f.customer(t, "C")
	f.product(t, "A", 1000, 5)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	order, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
		CustomerID: "C",
		Items:      []commands.OrderLine{{ProductID: "A", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestConcurrentOrdersNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "C")
	f.product(t, "A", 100, 10)
	handler := commands.NewPlaceOrderCommandHandler(f.store, f.events, discardLogger())

	var placed, rejected atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(context.Background(), commands.PlaceOrderCommand{
				CustomerID: "C",
				Items:      []commands.OrderLine{{ProductID: "A", Quantity: 1}},
			})
			switch {
			case err == nil:
				placed.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), placed.Load())
	assert.Equal(t, int64(15), rejected.Load())
	assert.Equal(t, int64(0), f.stock(t, "A"))
	assert.Equal(t, int64(10), f.stats(t, "C").TotalOrders)
}
