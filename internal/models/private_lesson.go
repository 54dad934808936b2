package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// LessonPlace tells where a private lesson takes place.
type LessonPlace string

const (
	PlaceSchool LessonPlace = "SCHOOL"
	PlaceHome   LessonPlace = "HOME"
)

// PrivateLesson is a one-off lesson for one or more students.
type PrivateLesson struct {
	ID         string       `db:"id" json:"id"`
	LessonDate domain.Date  `db:"lesson_date" json:"lesson_date"`
	StartTime  TimeOfDay    `db:"start_time" json:"start_time"`
	EndTime    TimeOfDay    `db:"end_time" json:"end_time"`
	Fee        domain.Money `db:"fee" json:"fee"`
	Place      LessonPlace  `db:"place" json:"place"`
	TeacherID  string       `db:"teacher_id" json:"teacher_id"`
	StudentIDs []string     `db:"-" json:"student_ids"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}

// Overlaps reports whether two lessons on the same day share any minute.
func (l PrivateLesson) Overlaps(o PrivateLesson) bool {
	if !l.LessonDate.Equal(o.LessonDate) {
		return false
	}
	return l.StartTime.Before(o.EndTime) && o.StartTime.Before(l.EndTime)
}

// PrivateLessonDetail adds the teacher name.
type PrivateLessonDetail struct {
	PrivateLesson
	TeacherName string `db:"teacher_name" json:"teacher_name"`
}
