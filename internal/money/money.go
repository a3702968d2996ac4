/*
Package money provides a fixed-point decimal quantity used for every
monetary value in the ledger. Floating-point is never used for amounts,
all arithmetic goes through shopspring/decimal, which backs the storage
column type NUMERIC(19,4).
*/
package money

import (
	"database/sql/driver"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every monetary value carries.
const Scale = 4

// Money is an exact decimal quantity tagged with a currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// New builds a Money from a string representation, e.g. "1000.00".
// Returns an error if s is not a valid decimal.
func New(s string, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Money{Amount: d.Round(Scale), Currency: currency}, nil
}

// FromDecimal wraps an existing decimal.Decimal, rounding to Scale.
func FromDecimal(d decimal.Decimal, currency string) Money {
	return Money{Amount: d.Round(Scale), Currency: currency}
}

func (m Money) Add(other Money) Money {
	return Money{Amount: m.Amount.Add(other.Amount).Round(Scale), Currency: m.Currency}
}

func (m Money) Sub(other Money) Money {
	return Money{Amount: m.Amount.Sub(other.Amount).Round(Scale), Currency: m.Currency}
}

func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// Equal compares amount only; callers are expected to have already checked
// currency agreement (see ledger.Engine.PostEntries).
func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount)
}

func (m Money) GreaterThan(other Money) bool { return m.Amount.GreaterThan(other.Amount) }
func (m Money) LessThan(other Money) bool    { return m.Amount.LessThan(other.Amount) }

func (m Money) String() string {
	return m.Amount.StringFixed(Scale)
}

// Value implements driver.Valuer so Money.Amount can be bound directly as a
// query parameter against a NUMERIC(19,4) column.
func (m Money) Value() (driver.Value, error) {
	return m.Amount.StringFixed(Scale), nil
}
