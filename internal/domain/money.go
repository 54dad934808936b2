package domain

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount held at cent precision. Every constructor and
// arithmetic operation rounds to two places, so sums never drift.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(2)}
}

// ParseMoney reads a decimal string such as "120.50". Surrounding blanks are
// ignored and a comma is accepted as decimal separator.
func ParseMoney(raw string) (Money, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return Zero, fmt.Errorf("parse amount: empty value")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return NewMoney(d), nil
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(raw string) Money {
	m, err := ParseMoney(raw)
	if err != nil {
		panic(err)
	}
	return m
}

func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -2)}
}

func (m Money) Add(o Money) Money { return NewMoney(m.d.Add(o.d)) }

func (m Money) Sub(o Money) Money { return NewMoney(m.d.Sub(o.d)) }

// Cmp returns -1, 0 or 1 as m is less than, equal to or greater than o.
func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

func (m Money) Decimal() decimal.Decimal { return m.d }

// Cents returns the amount in hundredths.
func (m Money) Cents() int64 { return m.d.Shift(2).IntPart() }

// String renders exactly two decimals, e.g. "150.00".
func (m Money) String() string { return m.d.StringFixed(2) }

// Format renders the amount with a currency suffix, e.g. "150.00 CHF".
func (m Money) Format(currency string) string {
	if currency == "" {
		return m.String()
	}
	return m.String() + " " + currency
}

// MarshalJSON writes a bare JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Zero
		return nil
	}
	parsed, err := ParseMoney(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (m *Money) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan amount: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Sum adds amounts, rounding after each step.
func Sum(amounts []Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
