package domain

import (
	"time"

	"github.com/dejobratic/backoffice/internal/money"
)

// OrderPlaced is emitted once an order has been assembled and committed.
type OrderPlaced struct {
	OrderID     string      `json:"orderId"`
	OrderNumber string      `json:"orderNumber"`
	CustomerID  string      `json:"customerId"`
	Items       []OrderItem `json:"items"`
	Total       money.Cents `json:"total"`
	OccurredAt  time.Time   `json:"occurredAt"`
}

// StockRestore records stock returned to a product when an order is deleted.
type StockRestore struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// OrderDeleted is emitted after an order has been reversed and removed.
type OrderDeleted struct {
	OrderID     string         `json:"orderId"`
	OrderNumber string         `json:"orderNumber"`
	CustomerID  string         `json:"customerId"`
	Total       money.Cents    `json:"total"`
	Restored    []StockRestore `json:"restored"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// StockAdjusted is emitted after an administrative stock change.
type StockAdjusted struct {
	ProductID  string         `json:"productId"`
	SKU        string         `json:"sku"`
	Operation  StockOperation `json:"operation"`
	Quantity   int64          `json:"quantity"`
	Previous   int64          `json:"previous"`
	Current    int64          `json:"current"`
	OccurredAt time.Time      `json:"occurredAt"`
}
