package app

import (
	"context"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
	"github.com/dejobratic/backoffice/internal/money"
)

// ProductInput carries the fields of a product create or update. Nil fields are left as they are.
type ProductInput struct {
	Name        *string               `json:"name" yaml:"name"`
	Description *string               `json:"description" yaml:"description"`
	SKU         *string               `json:"sku" yaml:"sku"`
	Category    *string               `json:"category" yaml:"category"`
	Price       *money.Cents          `json:"price" yaml:"price"`
	Cost        *money.Cents          `json:"cost" yaml:"cost"`
	Stock       *int64                `json:"stock" yaml:"stock"`
	Unit        *domain.Unit          `json:"unit" yaml:"unit"`
	Status      *domain.ProductStatus `json:"status" yaml:"status"`
}

func (in ProductInput) apply(p *domain.Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Cost != nil {
		p.Cost = *in.Cost
	}
	if in.Unit != nil {
		p.Unit = *in.Unit
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
}

// CreateProduct validates and stores a new catalog entry with its opening stock.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	now := s.now()
	product := domain.Product{ID: domain.NewID(), CreatedAt: now, UpdatedAt: now}
	in.apply(&product)
	if in.Stock != nil {
		product.Stock = *in.Stock
	}

	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct edits catalog fields. Stock is changed only through AdjustStock.
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*domain.Product, error) {
	product, err := s.store.Products().GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	in.apply(product)
	product.UpdatedAt = s.now()
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Products().Update(ctx, *product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.Products().GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) (ports.ListResult[domain.Product], error) {
	return s.store.Products().List(ctx, filter)
}

// DeleteProduct removes the product. Orders keep their lines and expand the product as null.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.store.Products().Delete(ctx, strings.TrimSpace(id))
}
