package dto

import (
	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

// CourseRequest creates or replaces a course.
type CourseRequest struct {
	Name          string            `json:"name" validate:"required,min=2,max=100"`
	Type          models.CourseType `json:"type" validate:"required,oneof=INTENSIVE SEMI_INTENSIVE"`
	Level         string            `json:"level" validate:"required,oneof=A1 A2 B1 B2 C1"`
	HoursPerWeek  *int              `json:"hours_per_week,omitempty" validate:"omitempty,min=1"`
	DurationWeeks *int              `json:"duration_weeks,omitempty" validate:"omitempty,min=1"`
	Fee           domain.Money      `json:"fee"`
}

// SessionRequest creates or replaces a session.
type SessionRequest struct {
	CourseID         string        `json:"course_id" validate:"required"`
	TeacherID        *string       `json:"teacher_id,omitempty"`
	StartDate        domain.Date   `json:"start_date"`
	EndDate          domain.Date   `json:"end_date"`
	Period           domain.Period `json:"period" validate:"required,oneof=MORNING EVENING"`
	SessionsPerMonth int           `json:"sessions_per_month" validate:"required,min=1,max=31"`
	Capacity         int           `json:"capacity" validate:"required,min=1"`
}

// EnrollmentRequest creates or updates an enrollment. Status is the value
// derived by the caller; when empty the server derives it.
type EnrollmentRequest struct {
	SessionID       string                  `json:"session_id" validate:"required"`
	RegisteredOn    domain.Date             `json:"registered_on"`
	Purpose         *string                 `json:"purpose,omitempty" validate:"omitempty,max=255"`
	Fee             domain.Money            `json:"fee"`
	PreRegistration bool                    `json:"pre_registration"`
	ExitDate        *domain.Date            `json:"exit_date,omitempty"`
	ExitReason      *string                 `json:"exit_reason,omitempty" validate:"omitempty,max=255"`
	Status          domain.EnrollmentStatus `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// PrivateLessonRequest creates or replaces a private lesson.
type PrivateLessonRequest struct {
	LessonDate domain.Date        `json:"lesson_date"`
	StartTime  models.TimeOfDay   `json:"start_time"`
	EndTime    models.TimeOfDay   `json:"end_time"`
	Fee        domain.Money       `json:"fee"`
	Place      models.LessonPlace `json:"place" validate:"required,oneof=SCHOOL HOME"`
	TeacherID  string             `json:"teacher_id" validate:"required"`
	StudentIDs []string           `json:"student_ids" validate:"required,min=1,dive,required"`
}
