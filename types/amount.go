// Package types provides common types used across Vesting.
package types

import (
	"fmt"
	"math/bits"
	"strconv"
)

// Amount represents a quantity of the managed asset in its smallest
// indivisible unit. All arithmetic is integer-only, never floating point.
//
// The ledger never holds negative balances; negative Amounts only appear
// transiently as deltas (e.g. when decrementing the allocation counter).
type Amount int64

// Arithmetic operations

// Add adds two Amounts.
func (a Amount) Add(other Amount) Amount { return a + other }

// Sub subtracts another Amount.
func (a Amount) Sub(other Amount) Amount { return a - other }

// Negate returns the negative of the Amount.
func (a Amount) Negate() Amount { return -a }

// Min returns the smaller of two Amounts.
func (a Amount) Min(other Amount) Amount {
	if a < other {
		return a
	}
	return other
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a > 0 }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a < 0 }

// Int64 returns the amount as a plain int64.
func (a Amount) Int64() int64 { return int64(a) }

// String returns the base-unit amount as a decimal string.
func (a Amount) String() string { return strconv.FormatInt(int64(a), 10) }

// Prorate computes floor(total * elapsed / duration) without narrowing the
// intermediate product: the 64x64 multiply is carried out in 128 bits
// before the division, so the full int64 range of total and elapsed is
// safe. All three operands must be non-negative and duration must be
// positive; violations are programming errors and panic.
//
// Division truncates toward zero, which for these non-negative operands
// is a floor. Between quantization boundaries the linear accrual is
// therefore approximated downward, never upward.
func Prorate(total Amount, elapsed, duration int64) Amount {
	if duration <= 0 {
		panic("types: prorate with non-positive duration")
	}
	if total < 0 || elapsed < 0 {
		panic(fmt.Sprintf("types: prorate with negative operand (total=%d elapsed=%d)", total, elapsed))
	}
	if elapsed >= duration {
		return total
	}

	hi, lo := bits.Mul64(uint64(total), uint64(elapsed))
	quo, _ := bits.Div64(hi, lo, uint64(duration))
	return Amount(quo)
}

// SumAmounts calculates the sum of multiple Amounts.
func SumAmounts(values ...Amount) Amount {
	var result Amount
	for _, v := range values {
		result += v
	}
	return result
}
