package service

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Clock returns the current calendar date in the school's time zone.
type Clock func() domain.Date

// ClockIn returns a Clock for loc.
func ClockIn(loc *time.Location) Clock {
	return func() domain.Date { return domain.Today(loc) }
}

func defaultClock(c Clock) Clock {
	if c == nil {
		return ClockIn(time.UTC)
	}
	return c
}
