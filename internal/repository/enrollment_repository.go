package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const enrollmentDetailSelect = `SELECT e.id, e.student_id, e.session_id, e.registered_on, e.purpose, e.fee, e.pre_registration,
        e.exit_date, e.exit_reason, e.status, e.created_at, e.updated_at,
        c.name AS course_name, se.start_date AS session_start_date, se.end_date AS session_end_date
        FROM enrollments e
        JOIN sessions se ON se.id = e.session_id
        JOIN courses c ON c.id = se.course_id`

// EnrollmentRepository persists enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByStudent returns a student's enrollments, latest session first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	var enrollments []models.EnrollmentDetail
	query := enrollmentDetailSelect + " WHERE e.student_id = $1 ORDER BY se.start_date DESC"
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	var enrollment models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &enrollment, enrollmentDetailSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists reports whether the student is already enrolled in the session,
// ignoring excludeID.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, sessionID, excludeID string) (bool, error) {
	query := `SELECT 1 FROM enrollments WHERE student_id = $1 AND session_id = $2`
	args := []interface{}{studentID, sessionID}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ListEnrollees returns the enrollments a month-sheet starting at monthStart
// is built for: every enrollment of the session, whatever its status, except
// those that exited before the month began.
func (r *EnrollmentRepository) ListEnrollees(ctx context.Context, sessionID string, monthStart domain.Date) ([]domain.Enrollee, error) {
	var rows []struct {
		EnrollmentID string `db:"id"`
		StudentID    string `db:"student_id"`
	}
	const query = `SELECT e.id, e.student_id FROM enrollments e JOIN students s ON s.id = e.student_id
        WHERE e.session_id = $1 AND (e.exit_date IS NULL OR e.exit_date >= $2)
        ORDER BY s.last_name, s.first_name`
	if err := r.db.SelectContext(ctx, &rows, query, sessionID, monthStart); err != nil {
		return nil, fmt.Errorf("list enrollees: %w", err)
	}
	enrollees := make([]domain.Enrollee, 0, len(rows))
	for _, row := range rows {
		enrollees = append(enrollees, domain.Enrollee{EnrollmentID: row.EnrollmentID, StudentID: row.StudentID})
	}
	return enrollees, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	const query = `INSERT INTO enrollments (id, student_id, session_id, registered_on, purpose, fee, pre_registration, exit_date, exit_reason, status, created_at, updated_at)
        VALUES (:id, :student_id, :session_id, :registered_on, :purpose, :fee, :pre_registration, :exit_date, :exit_reason, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return mapWriteError("create enrollment", err)
	}
	return nil
}

func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET session_id = :session_id, registered_on = :registered_on, purpose = :purpose, fee = :fee,
        pre_registration = :pre_registration, exit_date = :exit_date, exit_reason = :exit_reason, status = :status, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return mapWriteError("update enrollment", err)
	}
	return nil
}

func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return expectAffected(res)
}
