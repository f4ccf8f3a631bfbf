package types

import (
	"math"
	"testing"
)

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Amount
		expected Amount
	}{
		{"Add", func() Amount { return Amount(100).Add(200) }, 300},
		{"Sub", func() Amount { return Amount(500).Sub(200) }, 300},
		{"Negate", func() Amount { return Amount(100).Negate() }, -100},
		{"Min first", func() Amount { return Amount(50).Min(100) }, 50},
		{"Min second", func() Amount { return Amount(100).Min(50) }, 50},
		{"Chained", func() Amount { return Amount(1000).Add(500).Sub(250) }, 1250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got != tt.expected {
				t.Errorf("Got %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAmountPredicates(t *testing.T) {
	tests := []struct {
		name       string
		amount     Amount
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", 0, true, false, false},
		{"Positive", 100, false, true, false},
		{"Negative", -100, false, false, true},
		{"Max", math.MaxInt64, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.amount.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.amount.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.amount.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestProrate(t *testing.T) {
	tests := []struct {
		name     string
		total    Amount
		elapsed  int64
		duration int64
		expected Amount
	}{
		{"Nothing elapsed", 1000, 0, 100, 0},
		{"Half", 1000, 50, 100, 500},
		{"Full", 1000, 100, 100, 1000},
		{"Past end clamps", 1000, 250, 100, 1000},
		{"Truncates down", 100, 1, 3, 33},
		{"One unit", 1, 1, 2, 0},
		{"Cliff scenario", 1_000_000, 15_552_000, 63_072_000, 246_575},
		// total*elapsed overflows int64; the 128-bit intermediate keeps it exact.
		{"Wide intermediate", math.MaxInt64 / 2, 999_999, 1_000_000, 4611681406741369475},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Prorate(tt.total, tt.elapsed, tt.duration); got != tt.expected {
				t.Errorf("Prorate(%d, %d, %d): got %d, want %d",
					tt.total, tt.elapsed, tt.duration, got, tt.expected)
			}
		})
	}
}

func TestProrateMonotone(t *testing.T) {
	const total, duration = 987_654_321, 86_400
	prev := Amount(-1)
	for elapsed := int64(0); elapsed <= duration; elapsed += 997 {
		got := Prorate(total, elapsed, duration)
		if got < prev {
			t.Fatalf("Prorate not monotone at elapsed=%d: %d < %d", elapsed, got, prev)
		}
		prev = got
	}
	if Prorate(total, duration, duration) != total {
		t.Errorf("Prorate at duration should equal total")
	}
}

func TestProratePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Zero duration", func() { Prorate(100, 10, 0) }},
		{"Negative duration", func() { Prorate(100, 10, -1) }},
		{"Negative total", func() { Prorate(-100, 10, 20) }},
		{"Negative elapsed", func() { Prorate(100, -10, 20) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("Expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestSumAmounts(t *testing.T) {
	tests := []struct {
		name     string
		values   []Amount
		expected Amount
	}{
		{"Empty", []Amount{}, 0},
		{"Single", []Amount{100}, 100},
		{"Multiple", []Amount{100, 200, 300}, 600},
		{"With negatives", []Amount{100, -50, 200}, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SumAmounts(tt.values...); got != tt.expected {
				t.Errorf("SumAmounts: got %d, want %d", got, tt.expected)
			}
		})
	}
}
