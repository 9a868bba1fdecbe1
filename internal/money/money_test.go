package money_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/dejobratic/backoffice/internal/money"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    money.Cents
		wantErr error
	}{
		{name: "integer", input: "10", want: 1000},
		{name: "one decimal", input: "10.5", want: 1050},
		{name: "two decimals", input: "0.99", want: 99},
		{name: "surrounding spaces", input: " 3.10 ", want: 310},
		{name: "negative", input: "-1.25", want: -125},
		{name: "too precise", input: "1.005", wantErr: money.ErrTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}

	t.Run("rejects garbage", func(t *testing.T) {
		if _, err := money.Parse("ten"); err == nil {
			t.Fatal("expected error for non-numeric input")
		}
	})
}

func TestCentsJSON(t *testing.T) {
	t.Run("marshals as a decimal number", func(t *testing.T) {
		payload := struct {
			Price money.Cents `json:"price"`
			Total money.Cents `json:"total"`
		}{Price: 1050, Total: 2600}

		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != `{"price":10.5,"total":26}` {
			t.Errorf("unexpected JSON: %s", data)
		}
	})

	t.Run("accepts numbers and numeric strings", func(t *testing.T) {
		var payload struct {
			Tax      money.Cents `json:"tax"`
			Discount money.Cents `json:"discount"`
		}
		if err := json.Unmarshal([]byte(`{"tax": 1.2, "discount": "0.30"}`), &payload); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if payload.Tax != 120 || payload.Discount != 30 {
			t.Errorf("got tax=%d discount=%d", payload.Tax, payload.Discount)
		}
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		var c money.Cents
		if err := json.Unmarshal([]byte(`0.001`), &c); !errors.Is(err, money.ErrTooPrecise) {
			t.Errorf("expected ErrTooPrecise, got %v", err)
		}
	})
}

func TestCentsYAML(t *testing.T) {
	var fixture struct {
		Price money.Cents `yaml:"price"`
		Cost  money.Cents `yaml:"cost"`
	}
	if err := yaml.Unmarshal([]byte("price: 19.99\ncost: 7\n"), &fixture); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fixture.Price != 1999 || fixture.Cost != 700 {
		t.Errorf("got price=%d cost=%d", fixture.Price, fixture.Cost)
	}
}

func TestCentsArithmetic(t *testing.T) {
	if got, err := money.Cents(1000).Mul(3); err != nil || got != 3000 {
		t.Errorf("Mul = %d, %v, want 3000", got, err)
	}
	if got, err := money.Cents(1000).Add(-250); err != nil || got != 750 {
		t.Errorf("Add = %d, %v, want 750", got, err)
	}
	if got, err := money.Cents(100).Sub(250); err != nil || got != -150 {
		t.Errorf("Sub = %d, %v, want -150", got, err)
	}
	if got := money.Cents(2599).String(); got != "25.99" {
		t.Errorf("String = %s, want 25.99", got)
	}
	if got := money.Cents(150).Float64(); got != 1.5 {
		t.Errorf("Float64 = %v, want 1.5", got)
	}
}

func TestCentsArithmeticOutOfRange(t *testing.T) {
	const maxCents = money.Cents(math.MaxInt64)
	const minCents = money.Cents(math.MinInt64)

	tests := []struct {
		name string
		op   func() (money.Cents, error)
	}{
		{"add past max", func() (money.Cents, error) { return maxCents.Add(1) }},
		{"sub past min", func() (money.Cents, error) { return minCents.Sub(1) }},
		{"sub negative past max", func() (money.Cents, error) { return money.Cents(10).Sub(minCents + 1) }},
		{"mul past max", func() (money.Cents, error) { return money.Cents(math.MaxInt64 / 2).Mul(3) }},
		{"mul negative past min", func() (money.Cents, error) { return money.Cents(2).Mul(math.MinInt64) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.op(); !errors.Is(err, money.ErrOutOfRange) {
				t.Errorf("expected ErrOutOfRange, got %v", err)
			}
		})
	}

	if got, err := maxCents.Add(0); err != nil || got != maxCents {
		t.Errorf("Add at the limit = %d, %v", got, err)
	}
}
