package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// PlacementTest records the level a student reached on an entry test.
type PlacementTest struct {
	ID        string       `db:"id" json:"id"`
	StudentID string       `db:"student_id" json:"student_id"`
	TestDate  domain.Date  `db:"test_date" json:"test_date"`
	Level     string       `db:"level" json:"level"`
	Score     domain.Score `db:"score" json:"score"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
