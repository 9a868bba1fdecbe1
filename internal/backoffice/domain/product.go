package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/money"
)

// ProductStatus controls whether a product is sellable and counted in inventory.
type ProductStatus string

const (
	ProductActive       ProductStatus = "active"
	ProductInactive     ProductStatus = "inactive"
	ProductDiscontinued ProductStatus = "discontinued"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductDiscontinued:
		return true
	}
	return false
}

// Unit is the unit a product is sold in.
type Unit string

const (
	UnitPiece    Unit = "piece"
	UnitKilogram Unit = "kg"
	UnitGram     Unit = "g"
	UnitLiter    Unit = "L"
	UnitMeter    Unit = "m"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitPiece, UnitKilogram, UnitGram, UnitLiter, UnitMeter:
		return true
	}
	return false
}

// Product is a catalog entry with its current stock level.
type Product struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	SKU         string        `json:"sku"`
	Category    string        `json:"category"`
	Price       money.Cents   `json:"price"`
	Cost        money.Cents   `json:"cost"`
	Stock       int64         `json:"stock"`
	Unit        Unit          `json:"unit"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Normalize trims text fields and fills defaults.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.SKU = strings.TrimSpace(p.SKU)
	p.Category = strings.TrimSpace(p.Category)
	if p.Unit == "" {
		p.Unit = UnitPiece
	}
	if p.Status == "" {
		p.Status = ProductActive
	}
}

// Validate ensures the product adheres to catalog constraints.
func (p Product) Validate() error {
	v := &ValidationError{}
	if p.Name == "" {
		v.Add("name", "Product name is required")
	}
	if p.SKU == "" {
		v.Add("sku", "SKU is required")
	}
	if p.Category == "" {
		v.Add("category", "Category is required")
	}
	if p.Price < 0 {
		v.Add("price", "Price must be zero or greater")
	}
	if p.Cost < 0 {
		v.Add("cost", "Cost must be zero or greater")
	}
	if p.Stock < 0 {
		v.Add("stock", "Stock must be zero or greater")
	}
	if !p.Unit.Valid() {
		v.Add("unit", "Unit must be one of piece, kg, g, L, m")
	}
	if !p.Status.Valid() {
		v.Add("status", "Status must be one of active, inactive, discontinued")
	}
	return v.Err()
}

// IsActive reports whether the product participates in inventory reporting.
func (p Product) IsActive() bool {
	return p.Status == ProductActive
}

// InventoryValue is stock valued at cost.
func (p Product) InventoryValue() (money.Cents, error) {
	value, err := p.Cost.Mul(p.Stock)
	if err != nil {
		return 0, fmt.Errorf("value product %s: %w", p.ID, err)
	}
	return value, nil
}
