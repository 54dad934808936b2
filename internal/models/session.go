package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Session is a scheduled offering of a course.
type Session struct {
	ID               string               `db:"id" json:"id"`
	CourseID         string               `db:"course_id" json:"course_id"`
	TeacherID        *string              `db:"teacher_id" json:"teacher_id,omitempty"`
	StartDate        domain.Date          `db:"start_date" json:"start_date"`
	EndDate          domain.Date          `db:"end_date" json:"end_date"`
	Period           domain.Period        `db:"period" json:"period"`
	SessionsPerMonth int                  `db:"sessions_per_month" json:"sessions_per_month"`
	Capacity         int                  `db:"capacity" json:"capacity"`
	Status           domain.SessionStatus `db:"status" json:"status"`
	CreatedAt        time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time            `db:"updated_at" json:"updated_at"`
}

// Ref returns the fields enrollment status derivation needs.
func (s Session) Ref() domain.SessionRef {
	return domain.SessionRef{ID: s.ID, EndDate: s.EndDate}
}

// SessionDetail enriches Session with course, teacher and seat information.
type SessionDetail struct {
	Session
	CourseName  string  `db:"course_name" json:"course_name"`
	CourseType  string  `db:"course_type" json:"course_type"`
	CourseLevel string  `db:"course_level" json:"course_level"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
	Enrolled    int     `db:"enrolled" json:"enrolled"`
}

// SeatsLeft is capacity minus enrolled students, never negative.
func (s SessionDetail) SeatsLeft() int {
	if left := s.Capacity - s.Enrolled; left > 0 {
		return left
	}
	return 0
}

// SessionFilter provides filters for listing sessions.
type SessionFilter struct {
	Status   domain.SessionStatus
	CourseID string
	Page     int
	PageSize int
}

// SessionStudent is a student enrolled in a session.
type SessionStudent struct {
	EnrollmentID string                  `db:"enrollment_id" json:"enrollment_id"`
	StudentID    string                  `db:"student_id" json:"student_id"`
	LastName     string                  `db:"last_name" json:"last_name"`
	FirstName    string                  `db:"first_name" json:"first_name"`
	Status       domain.EnrollmentStatus `db:"status" json:"status"`
}
