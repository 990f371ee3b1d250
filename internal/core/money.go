// Package core provides money parsing and handling utilities.
//
// Amounts are exact fixed-point decimals backed by shopspring/decimal so that
// sums and differences never pick up floating-point error. The wire form is a
// plain JSON number and the storage form is decimal text.
package core

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when a string cannot be parsed as an amount.
var ErrInvalidAmount = &ValidationError{Message: "invalid amount"}

// Money is an exact decimal amount. The zero value is zero.
type Money struct {
	d decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d}
}

// MoneyFromCents builds an amount from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -2)}
}

// ParseMoney parses a decimal string.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. The sign
// is preserved; positivity is a business rule checked by the caller.
//
// Examples:
//
//	ParseMoney("12.34") -> 12.34, nil
//	ParseMoney("12,34") -> 12.34, nil
//	ParseMoney("abc")   -> 0, ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

// MustParseMoney is ParseMoney for literals known to be valid. It panics otherwise.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// Equal compares numerically, so 1.5 equals 1.50.
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsZero() bool { return m.d.IsZero() }

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// String renders at least two fractional digits and never drops precision.
func (m Money) String() string {
	if m.d.Exponent() >= -2 {
		return m.d.StringFixed(2)
	}
	return m.d.String()
}

// MarshalJSON writes the amount as an unquoted JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	m.d = d
	return nil
}

// Value stores the amount as exact decimal text.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan reads an amount written by Value, or any numeric column.
func (m *Money) Scan(src any) error {
	var d decimal.Decimal
	if err := d.Scan(src); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	m.d = d
	return nil
}
