package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// CourseType distinguishes intensive from semi-intensive courses.
type CourseType string

const (
	CourseIntensive     CourseType = "INTENSIVE"
	CourseSemiIntensive CourseType = "SEMI_INTENSIVE"
)

// Course is a catalogue entry sessions are scheduled from.
type Course struct {
	ID            string       `db:"id" json:"id"`
	Name          string       `db:"name" json:"name"`
	Type          CourseType   `db:"type" json:"type"`
	Level         string       `db:"level" json:"level"`
	HoursPerWeek  *int         `db:"hours_per_week" json:"hours_per_week,omitempty"`
	DurationWeeks *int         `db:"duration_weeks" json:"duration_weeks,omitempty"`
	Fee           domain.Money `db:"fee" json:"fee"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}
