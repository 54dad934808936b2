package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const attendanceRecordSelect = `SELECT id, enrollment_id, student_id, day, status FROM attendance_records`

// AttendanceRepository persists attendance month-sheets and their records.
type AttendanceRepository struct {
	db *sqlx.DB
}

func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// CreateSheet inserts the sheet header and its records in one transaction.
// A second sheet for the same session and month yields ErrDuplicate.
func (r *AttendanceRepository) CreateSheet(ctx context.Context, sheet *models.AttendanceSheet, records []domain.AttendanceRecord) (err error) {
	if sheet.ID == "" {
		sheet.ID = uuid.NewString()
	}
	sheet.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const sheetQuery = `INSERT INTO attendance_sheets (id, session_id, month, year, created_at)
        VALUES (:id, :session_id, :month, :year, :created_at)`
	if _, err = tx.NamedExecContext(ctx, sheetQuery, sheet); err != nil {
		return mapWriteError("create attendance sheet", err)
	}

	if len(records) > 0 {
		enrollments := make([]string, len(records))
		students := make([]string, len(records))
		days := make([]string, len(records))
		statuses := make([]string, len(records))
		for i, rec := range records {
			enrollments[i] = rec.EnrollmentID
			students[i] = rec.StudentID
			days[i] = rec.Date.String()
			statuses[i] = string(rec.Status)
		}
		const recordQuery = `INSERT INTO attendance_records (sheet_id, enrollment_id, student_id, day, status)
            SELECT $1, e, s, d, st FROM UNNEST($2::uuid[], $3::uuid[], $4::date[], $5::text[]) AS t(e, s, d, st)`
		if _, err = tx.ExecContext(ctx, recordQuery, sheet.ID, pq.Array(enrollments), pq.Array(students), pq.Array(days), pq.Array(statuses)); err != nil {
			return mapWriteError("create attendance records", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance sheet: %w", err)
	}
	return nil
}

// ListSheets returns a session's sheets, latest month first.
func (r *AttendanceRepository) ListSheets(ctx context.Context, sessionID string) ([]models.AttendanceSheet, error) {
	const query = `SELECT id, session_id, month, year, created_at FROM attendance_sheets
        WHERE session_id = $1 ORDER BY year DESC, month DESC`
	var sheets []models.AttendanceSheet
	if err := r.db.SelectContext(ctx, &sheets, query, sessionID); err != nil {
		return nil, fmt.Errorf("list attendance sheets: %w", err)
	}
	return sheets, nil
}

func (r *AttendanceRepository) FindSheet(ctx context.Context, id string) (*models.AttendanceSheet, error) {
	var sheet models.AttendanceSheet
	const query = `SELECT id, session_id, month, year, created_at FROM attendance_sheets WHERE id = $1`
	if err := r.db.GetContext(ctx, &sheet, query, id); err != nil {
		return nil, err
	}
	return &sheet, nil
}

// Records returns the flattened records of a sheet ordered by student and day.
func (r *AttendanceRepository) Records(ctx context.Context, sheetID string) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	query := attendanceRecordSelect + " WHERE sheet_id = $1 ORDER BY student_id, day"
	if err := r.db.SelectContext(ctx, &records, query, sheetID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// UpdateStatuses applies every status change or none. An id that does not
// belong to the sheet aborts the batch with sql.ErrNoRows.
func (r *AttendanceRepository) UpdateStatuses(ctx context.Context, sheetID string, updates []domain.StatusUpdate) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance update: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `UPDATE attendance_records SET status = $1 WHERE id = $2 AND sheet_id = $3`)
	if err != nil {
		return fmt.Errorf("prepare attendance update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		res, execErr := stmt.ExecContext(ctx, u.Status, u.ID, sheetID)
		if execErr != nil {
			err = fmt.Errorf("update attendance record %s: %w", u.ID, execErr)
			return err
		}
		if err = expectAffected(res); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance update: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) DeleteSheet(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance sheet: %w", err)
	}
	return expectAffected(res)
}

// ExportRows returns a sheet's records with student names for export.
func (r *AttendanceRepository) ExportRows(ctx context.Context, sheetID string) ([]models.AttendanceRow, error) {
	const query = `SELECT ar.id, ar.enrollment_id, ar.student_id, ar.day, ar.status, s.last_name, s.first_name
        FROM attendance_records ar
        JOIN students s ON s.id = ar.student_id
        WHERE ar.sheet_id = $1
        ORDER BY s.last_name, s.first_name, ar.day`
	var rows []models.AttendanceRow
	if err := r.db.SelectContext(ctx, &rows, query, sheetID); err != nil {
		return nil, fmt.Errorf("export attendance rows: %w", err)
	}
	return rows, nil
}
