package service

import "context"

// sessionRefresher schedules a session status recomputation.
type sessionRefresher interface {
	ScheduleRefresh(sessionID string)
}

// statsInvalidator drops cached dashboard figures after a write.
type statsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type noopRefresher struct{}

func (noopRefresher) ScheduleRefresh(string) {}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateStats(context.Context) {}
