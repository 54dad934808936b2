package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimeOfDayLayout is the wire format of lesson times.
const TimeOfDayLayout = "15:04"

// TimeOfDay is a wall-clock time in minutes after midnight.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{minutes: hour*60 + minute}
}

// ParseTimeOfDay reads "HH:MM"; a trailing ":SS" is tolerated.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) == len("15:04:05") {
		raw = raw[:len(TimeOfDayLayout)]
	}
	t, err := time.Parse(TimeOfDayLayout, raw)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time %q: %w", raw, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Minutes() int { return t.minutes }

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.minutes < o.minutes }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	parsed, err := ParseTimeOfDay(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(value interface{}) error {
	switch v := value.(type) {
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute())
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("scan time of day: unsupported type %T", value)
	}
}

func (t *TimeOfDay) scanString(raw string) error {
	parsed, err := ParseTimeOfDay(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String(), nil
}
