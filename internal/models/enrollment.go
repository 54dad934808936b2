package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Enrollment captures a student's registration into a session.
type Enrollment struct {
	ID              string                  `db:"id" json:"id"`
	StudentID       string                  `db:"student_id" json:"student_id"`
	SessionID       string                  `db:"session_id" json:"session_id"`
	RegisteredOn    domain.Date             `db:"registered_on" json:"registered_on"`
	Purpose         *string                 `db:"purpose" json:"purpose,omitempty"`
	Fee             domain.Money            `db:"fee" json:"fee"`
	PreRegistration bool                    `db:"pre_registration" json:"pre_registration"`
	ExitDate        *domain.Date            `db:"exit_date" json:"exit_date,omitempty"`
	ExitReason      *string                 `db:"exit_reason" json:"exit_reason,omitempty"`
	Status          domain.EnrollmentStatus `db:"status" json:"status"`
	CreatedAt       time.Time               `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time               `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with session and course info.
type EnrollmentDetail struct {
	Enrollment
	CourseName       string      `db:"course_name" json:"course_name"`
	SessionStartDate domain.Date `db:"session_start_date" json:"session_start_date"`
	SessionEndDate   domain.Date `db:"session_end_date" json:"session_end_date"`
}
