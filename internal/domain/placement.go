package domain

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxScore is the top mark of a placement test.
var MaxScore = decimal.NewFromInt(20)

// Score is a placement-test mark out of 20, held at two decimals.
type Score struct {
	d decimal.Decimal
}

// ParseScore reads a mark such as "14.5" or "14,5".
func ParseScore(raw string) (Score, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return Score{}, fmt.Errorf("parse score: empty value")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Score{}, fmt.Errorf("parse score %q: %w", raw, err)
	}
	return Score{d: d.Round(2)}, nil
}

// MustParseScore is ParseScore for literals known to be valid.
func MustParseScore(raw string) Score {
	s, err := ParseScore(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// InRange reports whether the mark lies within 0..20 inclusive.
func (s Score) InRange() bool {
	return !s.d.IsNegative() && s.d.LessThanOrEqual(MaxScore)
}

func (s Score) String() string { return s.d.StringFixed(2) }

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}
	parsed, err := ParseScore(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *Score) Scan(value interface{}) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("scan score: %w", err)
	}
	s.d = d.Round(2)
	return nil
}

func (s Score) Value() (driver.Value, error) {
	return s.String(), nil
}
