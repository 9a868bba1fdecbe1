package domain

import (
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/money"
)

// CustomerType distinguishes private buyers from companies.
type CustomerType string

const (
	CustomerIndividual CustomerType = "individual"
	CustomerBusiness   CustomerType = "business"
)

func (t CustomerType) Valid() bool {
	return t == CustomerIndividual || t == CustomerBusiness
}

// CustomerStatus marks whether a customer is still being served.
type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

func (s CustomerStatus) Valid() bool {
	return s == CustomerActive || s == CustomerInactive
}

type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	ZipCode string `json:"zipCode" yaml:"zipCode"`
	Country string `json:"country" yaml:"country"`
}

// CustomerStats are lifetime order aggregates. They change only through Apply* below.
type CustomerStats struct {
	TotalOrders int64       `json:"totalOrders"`
	TotalSpent  money.Cents `json:"totalSpent"`
}

// ApplyOrderPlaced folds one placed order into the aggregate. A lifetime spend that
// leaves the cents range is a ValidationError and the aggregate is left as it was.
func (s CustomerStats) ApplyOrderPlaced(e OrderPlaced) (CustomerStats, error) {
	spent, err := s.TotalSpent.Add(e.Total)
	if err != nil {
		return s, NewValidationError("totalSpent", "Customer total spent is out of range")
	}
	s.TotalOrders++
	s.TotalSpent = spent
	return s, nil
}

// RebuildCustomerStats recomputes the aggregate from order history.
func RebuildCustomerStats(orders []Order) (CustomerStats, error) {
	var stats CustomerStats
	for _, o := range orders {
		next, err := stats.ApplyOrderPlaced(o.PlacedEvent())
		if err != nil {
			return CustomerStats{}, err
		}
		stats = next
	}
	return stats, nil
}

// Customer is a buyer with contact details and order aggregates.
type Customer struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Company      string         `json:"company"`
	Address      Address        `json:"address"`
	CustomerType CustomerType   `json:"customerType"`
	Status       CustomerStatus `json:"status"`
	Notes        string         `json:"notes"`
	CustomerStats
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Normalize trims text fields and fills defaults.
func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Company = strings.TrimSpace(c.Company)
	if c.CustomerType == "" {
		c.CustomerType = CustomerIndividual
	}
	if c.Status == "" {
		c.Status = CustomerActive
	}
}

// Validate ensures the customer record is usable.
func (c Customer) Validate() error {
	v := &ValidationError{}
	if c.Name == "" {
		v.Add("name", "Customer name is required")
	}
	if c.Email != "" && !validEmail(c.Email) {
		v.Add("email", "Please provide a valid email")
	}
	if !c.CustomerType.Valid() {
		v.Add("customerType", "Customer type must be individual or business")
	}
	if !c.Status.Valid() {
		v.Add("status", "Status must be active or inactive")
	}
	return v.Err()
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\n")
}
