// Package money stores amounts as integer minor units and renders them as decimal numbers.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Cents is an amount in minor currency units (two fractional digits).
type Cents int64

var (
	// ErrTooPrecise is returned when an amount has more than two fractional digits.
	ErrTooPrecise = errors.New("amount must have at most two decimal places")
	// ErrOutOfRange is returned when an amount does not fit in int64 cents.
	ErrOutOfRange = errors.New("amount is out of range")
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Parse converts a decimal string such as "12.5" into cents.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into cents, rejecting sub-cent precision.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(hundred)
	if !scaled.IsInteger() {
		return 0, ErrTooPrecise
	}
	if scaled.GreaterThan(maxCents) || scaled.LessThan(minCents) {
		return 0, ErrOutOfRange
	}
	return Cents(scaled.IntPart()), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Add returns c + d, or ErrOutOfRange when the sum does not fit in int64 cents.
func (c Cents) Add(d Cents) (Cents, error) {
	return FromDecimal(c.Decimal().Add(d.Decimal()))
}

// Sub returns c - d, or ErrOutOfRange when the difference does not fit.
func (c Cents) Sub(d Cents) (Cents, error) {
	return FromDecimal(c.Decimal().Sub(d.Decimal()))
}

// Mul multiplies the amount by an integer quantity, or returns ErrOutOfRange.
func (c Cents) Mul(qty int64) (Cents, error) {
	return FromDecimal(c.Decimal().Mul(decimal.NewFromInt(qty)))
}

// Float64 returns the amount in major units as a float, for metrics only.
func (c Cents) Float64() float64 {
	f, _ := c.Decimal().Float64()
	return f
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a JSON number in major units.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string in major units.
func (c *Cents) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(bytes.Trim(data, `"`))
	if raw == "" {
		return errors.New("amount must not be empty")
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalYAML accepts a scalar amount in major units.
func (c *Cents) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	parsed, err := Parse(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}
