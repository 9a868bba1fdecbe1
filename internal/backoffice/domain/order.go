package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/money"
	"github.com/google/uuid"
)

// OrderStatus captures the fulfillment lifecycle of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal indicates whether the order can no longer progress.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentPartial  PaymentStatus = "partial"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentPartial, PaymentRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOther        PaymentMethod = "other"
)

// Valid accepts the empty method; payment method is optional.
func (m PaymentMethod) Valid() bool {
	switch m {
	case "", PaymentCash, PaymentCreditCard, PaymentBankTransfer, PaymentOther:
		return true
	}
	return false
}

// OrderItem is one order line. Price is frozen at the time the order was placed.
type OrderItem struct {
	ProductID string      `json:"product"`
	Quantity  int64       `json:"quantity"`
	Price     money.Cents `json:"price"`
	Subtotal  money.Cents `json:"subtotal"`
}

// NewOrderItem prices a line from the product's current price. It fails with a
// ValidationError when price times quantity does not fit in cents.
func NewOrderItem(productID string, quantity int64, price money.Cents) (OrderItem, error) {
	subtotal, err := price.Mul(quantity)
	if err != nil {
		return OrderItem{}, NewValidationError("subtotal", "Item subtotal is out of range")
	}
	return OrderItem{
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		Subtotal:  subtotal,
	}, nil
}

// Order represents a customer purchase.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	CustomerID    string        `json:"customer"`
	Items         []OrderItem   `json:"items"`
	Subtotal      money.Cents   `json:"subtotal"`
	Tax           money.Cents   `json:"tax"`
	Discount      money.Cents   `json:"discount"`
	Total         money.Cents   `json:"total"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ComputeTotals derives subtotal and total from the items, tax and discount. Amounts
// that leave the cents range are rejected with a ValidationError.
func (o *Order) ComputeTotals() error {
	subtotal, total, err := o.sums()
	if err != nil {
		return NewValidationError("total", "Order total is out of range")
	}
	o.Subtotal = subtotal
	o.Total = total
	return nil
}

// sums adds up the item subtotals and applies tax and discount with range checks.
func (o Order) sums() (subtotal, total money.Cents, err error) {
	for _, item := range o.Items {
		if subtotal, err = subtotal.Add(item.Subtotal); err != nil {
			return 0, 0, err
		}
	}
	if total, err = subtotal.Add(o.Tax); err != nil {
		return 0, 0, err
	}
	if total, err = total.Sub(o.Discount); err != nil {
		return 0, 0, err
	}
	return subtotal, total, nil
}

// Validate checks the persisted-order invariants.
func (o Order) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(o.CustomerID) == "" {
		v.Add("customer", "Customer is required")
	}
	if len(o.Items) == 0 {
		v.Add("items", "At least one item is required")
	}
	for i, item := range o.Items {
		if item.Quantity < 1 {
			v.Add(fmt.Sprintf("items[%d].quantity", i), "Quantity must be at least 1")
		}
		if want, err := item.Price.Mul(item.Quantity); err != nil || item.Subtotal != want {
			v.Add(fmt.Sprintf("items[%d].subtotal", i), "Item subtotal must equal price times quantity")
		}
	}
	subtotal, total, err := o.sums()
	if err != nil {
		v.Add("total", "Order total is out of range")
	}
	if err == nil && o.Subtotal != subtotal {
		v.Add("subtotal", "Subtotal must equal the sum of item subtotals")
	}
	if o.Tax < 0 {
		v.Add("tax", "Tax must be zero or greater")
	}
	if o.Discount < 0 {
		v.Add("discount", "Discount must be zero or greater")
	}
	if err == nil && o.Total != total {
		v.Add("total", "Total must equal subtotal plus tax minus discount")
	}
	if !o.Status.Valid() {
		v.Add("status", "Invalid order status")
	}
	if !o.PaymentStatus.Valid() {
		v.Add("paymentStatus", "Invalid payment status")
	}
	if !o.PaymentMethod.Valid() {
		v.Add("paymentMethod", "Invalid payment method")
	}
	return v.Err()
}

// PlacedEvent describes the order as an OrderPlaced event.
func (o Order) PlacedEvent() OrderPlaced {
	return OrderPlaced{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		Items:       o.Items,
		Total:       o.Total,
		OccurredAt:  o.CreatedAt,
	}
}

// NewOrderNumber builds a human-readable, practically unique order number.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}
