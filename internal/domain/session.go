package domain

import "errors"

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

type Period string

const (
	PeriodMorning Period = "MORNING"
	PeriodEvening Period = "EVENING"
)

var ErrSessionDates = errors.New("session start date must not be after its end date")

func ValidateSessionDates(start, end Date) error {
	if start.After(end) {
		return ErrSessionDates
	}
	return nil
}

// DeriveSessionStatus closes a session once it is full or has started.
func DeriveSessionStatus(start Date, capacity, enrolled int, today Date) SessionStatus {
	full := enrolled >= capacity
	started := !start.After(today)
	if full || started {
		return SessionClosed
	}
	return SessionOpen
}

// SessionEnded reports whether the session end date is in the past.
func SessionEnded(end, today Date) bool {
	return end.Before(today)
}
