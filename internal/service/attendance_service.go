package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/export"
)

type attendanceRepository interface {
	CreateSheet(ctx context.Context, sheet *models.AttendanceSheet, records []domain.AttendanceRecord) error
	ListSheets(ctx context.Context, sessionID string) ([]models.AttendanceSheet, error)
	FindSheet(ctx context.Context, id string) (*models.AttendanceSheet, error)
	Records(ctx context.Context, sheetID string) ([]domain.AttendanceRecord, error)
	UpdateStatuses(ctx context.Context, sheetID string, updates []domain.StatusUpdate) error
	DeleteSheet(ctx context.Context, id string) error
	ExportRows(ctx context.Context, sheetID string) ([]models.AttendanceRow, error)
}

type attendanceSessionLookup interface {
	FindByID(ctx context.Context, id string) (*models.SessionDetail, error)
}

type enrolleeLister interface {
	ListEnrollees(ctx context.Context, sessionID string, monthStart domain.Date) ([]domain.Enrollee, error)
}

type tableRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// AttendanceService manages monthly attendance sheets.
type AttendanceService struct {
	repo      attendanceRepository
	sessions  attendanceSessionLookup
	enrollees enrolleeLister
	csv       tableRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

func NewAttendanceService(repo attendanceRepository, sessions attendanceSessionLookup, enrollees enrolleeLister, csv tableRenderer, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(export.WithSemicolon(), export.WithBOM())
	}
	return &AttendanceService{repo: repo, sessions: sessions, enrollees: enrollees, csv: csv, validator: validate, logger: logger}
}

// CreateSheet opens the month-sheet of a session with one ABSENT record per
// day for every enrollment still present at the start of the month.
func (s *AttendanceService) CreateSheet(ctx context.Context, sessionID string, req dto.AttendanceSheetRequest) (*models.AttendanceSheetDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid attendance sheet payload")
	}
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, repoError(err, "session not found", "failed to load session")
	}
	enrollees, err := s.enrollees.ListEnrollees(ctx, sessionID, domain.NewDate(req.Year, time.Month(req.Month), 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}

	sheet := &models.AttendanceSheet{SessionID: sessionID, Month: req.Month, Year: req.Year}
	records := domain.ExpandMonthSheet(time.Month(req.Month), req.Year, enrollees)
	if err := s.repo.CreateSheet(ctx, sheet, records); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an attendance sheet already exists for this month")
		}
		return nil, repoError(err, "session not found", "failed to create attendance sheet")
	}
	s.logger.Info("attendance sheet created",
		zap.String("sheet_id", sheet.ID), zap.String("session_id", sessionID), zap.Int("records", len(records)))
	return s.Get(ctx, sheet.ID)
}

func (s *AttendanceService) ListSheets(ctx context.Context, sessionID string) ([]models.AttendanceSheet, error) {
	sheets, err := s.repo.ListSheets(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance sheets")
	}
	return sheets, nil
}

// Get returns the sheet with its flattened records.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceSheetDetail, error) {
	sheet, err := s.repo.FindSheet(ctx, id)
	if err != nil {
		return nil, repoError(err, "attendance sheet not found", "failed to load attendance sheet")
	}
	records, err := s.repo.Records(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}
	return &models.AttendanceSheetDetail{AttendanceSheet: *sheet, Records: records}, nil
}

// UpdateStatuses applies a bulk status update atomically and returns the
// reloaded sheet.
func (s *AttendanceService) UpdateStatuses(ctx context.Context, id string, updates []domain.StatusUpdate) (*models.AttendanceSheetDetail, error) {
	for _, u := range updates {
		if err := s.validator.Struct(u); err != nil {
			return nil, validationError(err, "invalid attendance update")
		}
	}
	if _, err := s.repo.FindSheet(ctx, id); err != nil {
		return nil, repoError(err, "attendance sheet not found", "failed to load attendance sheet")
	}
	if err := s.repo.UpdateStatuses(ctx, id, updates); err != nil {
		return nil, repoError(err, "attendance record not found in sheet", "failed to update attendance")
	}
	return s.Get(ctx, id)
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteSheet(ctx, id); err != nil {
		return repoError(err, "attendance sheet not found", "failed to delete attendance sheet")
	}
	return nil
}

// ExportCSV renders the sheet as one row per student with a column per day
// and the number of days present.
func (s *AttendanceService) ExportCSV(ctx context.Context, id string) ([]byte, string, error) {
	sheet, err := s.repo.FindSheet(ctx, id)
	if err != nil {
		return nil, "", repoError(err, "attendance sheet not found", "failed to load attendance sheet")
	}
	rows, err := s.repo.ExportRows(ctx, id)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance rows")
	}

	records := make([]domain.AttendanceRecord, 0, len(rows))
	names := make(map[string][2]string)
	for _, row := range rows {
		records = append(records, row.AttendanceRecord)
		names[row.StudentID] = [2]string{row.LastName, row.FirstName}
	}
	month := domain.NewMonthSheet(time.Month(sheet.Month), sheet.Year, records)

	headers := []string{"Nom", "Prénom"}
	for day := 1; day <= month.Days(); day++ {
		headers = append(headers, strconv.Itoa(day))
	}
	headers = append(headers, "Présences")

	data := export.Dataset{Headers: headers}
	for _, studentID := range month.Students() {
		row := map[string]string{
			"Nom":       names[studentID][0],
			"Prénom":    names[studentID][1],
			"Présences": strconv.Itoa(month.TotalPresent(studentID)),
		}
		for day := 1; day <= month.Days(); day++ {
			status, ok := month.Status(studentID, day)
			switch {
			case !ok:
				row[strconv.Itoa(day)] = ""
			case status == domain.Present:
				row[strconv.Itoa(day)] = "P"
			default:
				row[strconv.Itoa(day)] = "A"
			}
		}
		data.Rows = append(data.Rows, row)
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render attendance export")
	}
	return payload, fmt.Sprintf("presences-%04d-%02d.csv", sheet.Year, sheet.Month), nil
}
