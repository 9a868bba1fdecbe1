package ports

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Limit  int
}

// Normalize clamps the page into the accepted range. The page number is capped so
// that Number*Limit still fits in an int; pages that far out are always empty.
func (p Page) Normalize() Page {
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Number < 1 {
		p.Number = 1
	}
	if last := math.MaxInt / p.Limit; p.Number > last {
		p.Number = last
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Limit
}

// Pages is the number of pages needed for total items.
func (p Page) Pages(total int) int {
	p = p.Normalize()
	return (total + p.Limit - 1) / p.Limit
}

// ListResult is one page of items plus the unpaginated match count.
type ListResult[T any] struct {
	Items []T
	Total int
}

// Paginate cuts one page out of already filtered and sorted items.
func Paginate[T any](items []T, page Page) ListResult[T] {
	page = page.Normalize()
	result := ListResult[T]{Items: []T{}, Total: len(items)}

	start := page.Offset()
	if start >= len(items) {
		return result
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}

	result.Items = append(result.Items, items[start:end]...)
	return result
}

// SortNewestFirst orders items by creation time descending, ties broken by id descending.
func SortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesAny(search string, fields ...string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	for _, f := range fields {
		if containsFold(f, search) {
			return true
		}
	}
	return false
}

type ProductFilter struct {
	Search   string
	Category string
	Status   domain.ProductStatus
	Page     Page
}

// Match reports whether p passes the filter, ignoring pagination.
func (f ProductFilter) Match(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	return matchesAny(f.Search, p.Name, p.SKU, p.Description)
}

type CustomerFilter struct {
	Search       string
	Status       domain.CustomerStatus
	CustomerType domain.CustomerType
	Page         Page
}

func (f CustomerFilter) Match(c domain.Customer) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.CustomerType != "" && c.CustomerType != f.CustomerType {
		return false
	}
	return matchesAny(f.Search, c.Name, c.Email, c.Phone, c.Company)
}

type OrderFilter struct {
	Search        string
	Status        domain.OrderStatus
	PaymentStatus domain.PaymentStatus
	CustomerID    string
	Page          Page
}

func (f OrderFilter) Match(o domain.Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	return matchesAny(f.Search, o.OrderNumber)
}

type UserFilter struct {
	Search string
	Role   domain.Role
	Page   Page
}

func (f UserFilter) Match(u domain.User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	return matchesAny(f.Search, u.Name, u.Email)
}
