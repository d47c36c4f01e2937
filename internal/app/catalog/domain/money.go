package domain

import (
	"fmt"
	"strconv"
)

// Money is an amount in integer currency units. Prices coming from the backend
// carry no fractional subunit, so plain integer arithmetic is exact.
type Money int64

// NewMoney parses a decimal amount. Fractional input is rejected rather than
// rounded so that a backend format change is noticed.
func NewMoney(s string) (Money, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return Money(v), nil
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("amount %q has a fractional part", s)
	}
	return Money(int64(f)), nil
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Multiply returns m * qty.
func (m Money) Multiply(qty int) Money {
	return m * Money(qty)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// Int64 returns the raw amount.
func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// MoneyPtr is a convenience for optional prices.
func MoneyPtr(v int64) *Money {
	m := Money(v)
	return &m
}
