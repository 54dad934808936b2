package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// AttendanceSheet is the month-sheet of one session.
type AttendanceSheet struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Month     int       `db:"month" json:"month"`
	Year      int       `db:"year" json:"year"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceSheetDetail carries the flattened records of a sheet.
type AttendanceSheetDetail struct {
	AttendanceSheet
	Records []domain.AttendanceRecord `json:"records"`
}

// MonthSheet indexes the sheet records for toggling.
func (d AttendanceSheetDetail) MonthSheet() *domain.MonthSheet {
	return domain.NewMonthSheet(time.Month(d.Month), d.Year, d.Records)
}

// AttendanceRow is a record joined with student names for exports.
type AttendanceRow struct {
	domain.AttendanceRecord
	LastName  string `db:"last_name"`
	FirstName string `db:"first_name"`
}
