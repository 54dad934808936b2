package domain

import "errors"

type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "ACTIVE"
	EnrollmentInactive EnrollmentStatus = "INACTIVE"
)

// SessionRef is the part of a session needed to derive enrollment status.
type SessionRef struct {
	ID      string
	EndDate Date
}

// FindSession returns the session with id, or nil.
func FindSession(sessions []SessionRef, id string) *SessionRef {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i]
		}
	}
	return nil
}

// DeriveEnrollmentStatus is ACTIVE while registered <= session end, INACTIVE
// afterwards. An unresolved session keeps the previous status.
func DeriveEnrollmentStatus(registered Date, session *SessionRef, previous EnrollmentStatus) EnrollmentStatus {
	if session == nil {
		return previous
	}
	if registered.After(session.EndDate) {
		return EnrollmentInactive
	}
	return EnrollmentActive
}

var ErrExitBeforeRegistration = errors.New("exit date must not precede the registration date")

func ValidateExit(registered Date, exit *Date) error {
	if exit != nil && !exit.IsZero() && exit.Before(registered) {
		return ErrExitBeforeRegistration
	}
	return nil
}
