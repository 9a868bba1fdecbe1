package domain

import "math"

// StockOperation selects how a stock adjustment combines with the current level.
type StockOperation string

const (
	StockSet      StockOperation = "set"
	StockAdd      StockOperation = "add"
	StockSubtract StockOperation = "subtract"
)

func (op StockOperation) Valid() bool {
	switch op {
	case StockSet, StockAdd, StockSubtract:
		return true
	}
	return false
}

// StockAdjustment is an administrative change to a product's stock level.
type StockAdjustment struct {
	Operation StockOperation
	Quantity  int64
}

func stockOutOfRange() error {
	return NewValidationError("stock", "Resulting stock is out of range")
}

// Apply computes the new stock level. The result is never negative. An add or
// subtract that would overflow int64 is rejected with a ValidationError.
func (a StockAdjustment) Apply(current int64) (int64, error) {
	var next int64
	switch a.Operation {
	case StockAdd:
		if (a.Quantity > 0 && current > math.MaxInt64-a.Quantity) ||
			(a.Quantity < 0 && current < math.MinInt64-a.Quantity) {
			return current, stockOutOfRange()
		}
		next = current + a.Quantity
	case StockSubtract:
		if (a.Quantity < 0 && current > math.MaxInt64+a.Quantity) ||
			(a.Quantity > 0 && current < math.MinInt64+a.Quantity) {
			return current, stockOutOfRange()
		}
		next = current - a.Quantity
	default:
		next = a.Quantity
	}
	if next < 0 {
		return 0, nil
	}
	return next, nil
}

// Validate rejects unknown operations. An empty operation means set.
func (a StockAdjustment) Validate() error {
	if a.Operation != "" && !a.Operation.Valid() {
		return NewValidationError("operation", "Operation must be one of set, add, subtract")
	}
	return nil
}

// Normalized returns the adjustment with the default operation filled in.
func (a StockAdjustment) Normalized() StockAdjustment {
	if a.Operation == "" {
		a.Operation = StockSet
	}
	return a
}

// StockChange is the outcome of a stock adjustment.
type StockChange struct {
	Product  Product
	Previous int64
}
