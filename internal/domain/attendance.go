package domain

import (
	"sort"
	"time"
)

type AttendanceStatus string

const (
	Present AttendanceStatus = "PRESENT"
	Absent  AttendanceStatus = "ABSENT"
)

// Toggle flips PRESENT and ABSENT.
func (s AttendanceStatus) Toggle() AttendanceStatus {
	if s == Present {
		return Absent
	}
	return Present
}

func DaysInMonth(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AttendanceRecord is one student's status on one day of a month-sheet.
type AttendanceRecord struct {
	ID           string           `db:"id" json:"id"`
	EnrollmentID string           `db:"enrollment_id" json:"enrollment_id"`
	StudentID    string           `db:"student_id" json:"student_id"`
	Date         Date             `db:"day" json:"date"`
	Status       AttendanceStatus `db:"status" json:"status"`
}

// StatusUpdate is the bulk save payload element.
type StatusUpdate struct {
	ID     string           `json:"id" validate:"required"`
	Status AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT"`
}

// Enrollee is an enrolled student a month-sheet is expanded for.
type Enrollee struct {
	EnrollmentID string
	StudentID    string
}

// ExpandMonthSheet builds one ABSENT record per day of the month per enrollee.
// IDs are left empty for the store to assign.
func ExpandMonthSheet(month time.Month, year int, enrollees []Enrollee) []AttendanceRecord {
	days := DaysInMonth(month, year)
	records := make([]AttendanceRecord, 0, days*len(enrollees))
	for _, e := range enrollees {
		for day := 1; day <= days; day++ {
			records = append(records, AttendanceRecord{
				EnrollmentID: e.EnrollmentID,
				StudentID:    e.StudentID,
				Date:         NewDate(year, month, day),
				Status:       Absent,
			})
		}
	}
	return records
}

// MonthSheet is the in-memory student -> day -> record map of one sheet.
// It never creates or removes records; only statuses change.
type MonthSheet struct {
	Month time.Month
	Year  int

	days     map[string]map[int]*AttendanceRecord
	students []string
	order    []*AttendanceRecord
}

// NewMonthSheet indexes records by student and day of month.
func NewMonthSheet(month time.Month, year int, records []AttendanceRecord) *MonthSheet {
	sheet := &MonthSheet{
		Month: month,
		Year:  year,
		days:  make(map[string]map[int]*AttendanceRecord),
	}
	for i := range records {
		rec := records[i]
		byDay, ok := sheet.days[rec.StudentID]
		if !ok {
			byDay = make(map[int]*AttendanceRecord)
			sheet.days[rec.StudentID] = byDay
			sheet.students = append(sheet.students, rec.StudentID)
		}
		day := rec.Date.Day()
		if existing, dup := byDay[day]; dup {
			*existing = rec
			continue
		}
		byDay[day] = &rec
		sheet.order = append(sheet.order, &rec)
	}
	return sheet
}

// Days is the number of days of the sheet's month.
func (s *MonthSheet) Days() int { return DaysInMonth(s.Month, s.Year) }

// Students lists student ids in first-seen order.
func (s *MonthSheet) Students() []string {
	out := make([]string, len(s.students))
	copy(out, s.students)
	return out
}

// Len is the number of records held.
func (s *MonthSheet) Len() int { return len(s.order) }

// Status returns the status of a student's day and whether a record exists.
func (s *MonthSheet) Status(studentID string, day int) (AttendanceStatus, bool) {
	rec, ok := s.days[studentID][day]
	if !ok {
		return "", false
	}
	return rec.Status, true
}

// Toggle flips the status of an existing record. A day with no record is
// left alone and false is returned.
func (s *MonthSheet) Toggle(studentID string, day int) bool {
	rec, ok := s.days[studentID][day]
	if !ok {
		return false
	}
	rec.Status = rec.Status.Toggle()
	return true
}

func (s *MonthSheet) TotalPresent(studentID string) int {
	total := 0
	for _, rec := range s.days[studentID] {
		if rec.Status == Present {
			total++
		}
	}
	return total
}

// Flatten returns every record as an {id, status} pair, ordered by student
// then day.
func (s *MonthSheet) Flatten() []StatusUpdate {
	out := make([]StatusUpdate, 0, len(s.order))
	for _, studentID := range s.students {
		byDay := s.days[studentID]
		days := make([]int, 0, len(byDay))
		for day := range byDay {
			days = append(days, day)
		}
		sort.Ints(days)
		for _, day := range days {
			rec := byDay[day]
			out = append(out, StatusUpdate{ID: rec.ID, Status: rec.Status})
		}
	}
	return out
}

// Records returns a copy of the records in load order.
func (s *MonthSheet) Records() []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(s.order))
	for _, rec := range s.order {
		out = append(out, *rec)
	}
	return out
}
