package controller

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

type attendanceAPI interface {
	GetAttendanceSheet(ctx context.Context, id string) (*models.AttendanceSheetDetail, error)
	SaveAttendance(ctx context.Context, id string, updates []domain.StatusUpdate) error
}

// ErrNoSheet is returned when the editor is used before Load.
var ErrNoSheet = errors.New("no attendance sheet loaded")

// AttendanceEditor edits one month-sheet in memory and saves it in bulk.
type AttendanceEditor struct {
	api    attendanceAPI
	logger *zap.Logger

	sheetID string
	sheet   *domain.MonthSheet
}

func NewAttendanceEditor(api attendanceAPI, logger *zap.Logger) *AttendanceEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceEditor{api: api, logger: logger}
}

// Load fetches a sheet and builds its day map.
func (e *AttendanceEditor) Load(ctx context.Context, sheetID string) error {
	detail, err := e.api.GetAttendanceSheet(ctx, sheetID)
	if err != nil {
		return failure(e.logger, "attendance lookup", err)
	}
	e.sheetID = sheetID
	e.sheet = domain.NewMonthSheet(time.Month(detail.Month), detail.Year, detail.Records)
	return nil
}

// Sheet exposes the loaded day map, nil before Load.
func (e *AttendanceEditor) Sheet() *domain.MonthSheet { return e.sheet }

// Toggle flips one day of one student. A day without a record is left
// alone and reported as false.
func (e *AttendanceEditor) Toggle(studentID string, day int) bool {
	if e.sheet == nil {
		return false
	}
	if !e.sheet.Toggle(studentID, day) {
		e.logger.Warn("attendance record missing",
			zap.String("sheet_id", e.sheetID), zap.String("student_id", studentID), zap.Int("day", day))
		return false
	}
	return true
}

func (e *AttendanceEditor) TotalPresent(studentID string) int {
	if e.sheet == nil {
		return 0
	}
	return e.sheet.TotalPresent(studentID)
}

// Save submits every record status, then reloads the sheet so the day map
// reflects what the server stored.
func (e *AttendanceEditor) Save(ctx context.Context) error {
	if e.sheet == nil {
		return ErrNoSheet
	}
	if err := e.api.SaveAttendance(ctx, e.sheetID, e.sheet.Flatten()); err != nil {
		return failure(e.logger, "attendance save", err)
	}
	return e.Load(ctx, e.sheetID)
}
