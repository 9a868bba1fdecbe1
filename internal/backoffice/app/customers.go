package app

import (
	"context"
	"strings"

	"github.com/dejobratic/backoffice/internal/backoffice/app/commands"
	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/backoffice/ports"
)

// CustomerInput carries the editable customer fields. Order aggregates are not accepted.
type CustomerInput struct {
	Name         *string                `json:"name" yaml:"name"`
	Email        *string                `json:"email" yaml:"email"`
	Phone        *string                `json:"phone" yaml:"phone"`
	Company      *string                `json:"company" yaml:"company"`
	Address      *domain.Address        `json:"address" yaml:"address"`
	CustomerType *domain.CustomerType   `json:"customerType" yaml:"customerType"`
	Status       *domain.CustomerStatus `json:"status" yaml:"status"`
	Notes        *string                `json:"notes" yaml:"notes"`
}

func (in CustomerInput) apply(c *domain.Customer) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Email != nil {
		c.Email = *in.Email
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Company != nil {
		c.Company = *in.Company
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.CustomerType != nil {
		c.CustomerType = *in.CustomerType
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	now := s.now()
	customer := domain.Customer{ID: domain.NewID(), CreatedAt: now, UpdatedAt: now}
	in.apply(&customer)

	customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Customers().Create(ctx, customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer edits contact fields; totalOrders and totalSpent are kept.
func (s *Service) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*domain.Customer, error) {
	customer, err := s.store.Customers().GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	in.apply(customer)
	customer.UpdatedAt = s.now()
	customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Customers().Update(ctx, *customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.store.Customers().GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) ListCustomers(ctx context.Context, filter ports.CustomerFilter) (ports.ListResult[domain.Customer], error) {
	return s.store.Customers().List(ctx, filter)
}

// DeleteCustomer removes the customer. Existing orders keep the reference and expand it as null.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.store.Customers().Delete(ctx, strings.TrimSpace(id))
}

// RebuildCustomerStats recomputes totalOrders and totalSpent from the customer's orders.
func (s *Service) RebuildCustomerStats(ctx context.Context, id string) (*domain.Customer, error) {
	return s.rebuildStats.Handle(ctx, commands.RebuildCustomerStatsCommand{CustomerID: id})
}
