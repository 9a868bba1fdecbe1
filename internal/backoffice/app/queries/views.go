package queries

import (
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/money"
)

// CustomerSummary is the customer projection embedded in order responses.
// Address is only set on single-order reads.
type CustomerSummary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Phone   string          `json:"phone"`
	Company string          `json:"company"`
	Address *domain.Address `json:"address,omitempty"`
}

// ProductSummary is the product projection embedded in order lines.
// Stock is only set on single-order reads.
type ProductSummary struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	SKU   string      `json:"sku"`
	Price money.Cents `json:"price"`
	Stock *int64      `json:"stock,omitempty"`
}

// OrderItemView is an order line with its product expanded. Product is null once
// the product has been deleted; ProductID always carries the reference.
type OrderItemView struct {
	ProductID string          `json:"productId"`
	Product   *ProductSummary `json:"product"`
	Quantity  int64           `json:"quantity"`
	Price     money.Cents     `json:"price"`
	Subtotal  money.Cents     `json:"subtotal"`
}

// OrderView is an order with its customer and products expanded for display.
type OrderView struct {
	ID            string               `json:"id"`
	OrderNumber   string               `json:"orderNumber"`
	CustomerID    string               `json:"customerId"`
	Customer      *CustomerSummary     `json:"customer"`
	Items         []OrderItemView      `json:"items"`
	Subtotal      money.Cents          `json:"subtotal"`
	Tax           money.Cents          `json:"tax"`
	Discount      money.Cents          `json:"discount"`
	Total         money.Cents          `json:"total"`
	Status        domain.OrderStatus   `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod,omitempty"`
	Notes         string               `json:"notes"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Detail selects how much of the related records an OrderView carries.
type Detail int

const (
	DetailSummary Detail = iota
	DetailFull
)

// NewOrderView joins order with whatever customers and products were found.
func NewOrderView(order domain.Order, customers map[string]domain.Customer, products map[string]domain.Product, detail Detail) OrderView {
	view := OrderView{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		Items:         make([]OrderItemView, 0, len(order.Items)),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	if c, ok := customers[order.CustomerID]; ok {
		summary := &CustomerSummary{
			ID:      c.ID,
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Company: c.Company,
		}
		if detail == DetailFull {
			addr := c.Address
			summary.Address = &addr
		}
		view.Customer = summary
	}

	for _, item := range order.Items {
		line := OrderItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Subtotal,
		}
		if p, ok := products[item.ProductID]; ok {
			summary := &ProductSummary{ID: p.ID, Name: p.Name, SKU: p.SKU, Price: p.Price}
			if detail == DetailFull {
				stock := p.Stock
				summary.Stock = &stock
			}
			line.Product = summary
		}
		view.Items = append(view.Items, line)
	}

	return view
}
