package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const sessionDetailSelect = `SELECT se.id, se.course_id, se.teacher_id, se.start_date, se.end_date, se.period, se.sessions_per_month,
        se.capacity, se.status, se.created_at, se.updated_at,
        c.name AS course_name, c.type AS course_type, c.level AS course_level,
        CASE WHEN t.id IS NULL THEN NULL ELSE t.first_name || ' ' || t.last_name END AS teacher_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.session_id = se.id) AS enrolled
        FROM sessions se
        JOIN courses c ON c.id = se.course_id
        LEFT JOIN teachers t ON t.id = se.teacher_id`

// SessionRepository persists course sessions.
type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions, most recent first.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("se.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("se.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")
	page, size := models.NormalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s%s ORDER BY se.start_date DESC LIMIT %d OFFSET %d", sessionDetailSelect, where, size, offset(page, size))
	var sessions []models.SessionDetail
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM sessions se"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// ListRefs returns every session id with its end date.
func (r *SessionRepository) ListRefs(ctx context.Context) ([]domain.SessionRef, error) {
	var rows []struct {
		ID      string      `db:"id"`
		EndDate domain.Date `db:"end_date"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT id, end_date FROM sessions`); err != nil {
		return nil, fmt.Errorf("list session refs: %w", err)
	}
	refs := make([]domain.SessionRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, domain.SessionRef{ID: row.ID, EndDate: row.EndDate})
	}
	return refs, nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	var session models.SessionDetail
	if err := r.db.GetContext(ctx, &session, sessionDetailSelect+" WHERE se.id = $1", id); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now
	const query = `INSERT INTO sessions (id, course_id, teacher_id, start_date, end_date, period, sessions_per_month, capacity, status, created_at, updated_at)
        VALUES (:id, :course_id, :teacher_id, :start_date, :end_date, :period, :sessions_per_month, :capacity, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return mapWriteError("create session", err)
	}
	return nil
}

// Update replaces the editable fields. Status is owned by the lifecycle job.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sessions SET course_id = :course_id, teacher_id = :teacher_id, start_date = :start_date, end_date = :end_date,
        period = :period, sessions_per_month = :sessions_per_month, capacity = :capacity, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return mapWriteError("update session", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return expectAffected(res)
}

// ListStudents returns the students enrolled in a session.
func (r *SessionRepository) ListStudents(ctx context.Context, sessionID string) ([]models.SessionStudent, error) {
	const query = `SELECT e.id AS enrollment_id, s.id AS student_id, s.last_name, s.first_name, e.status
        FROM enrollments e JOIN students s ON s.id = e.student_id
        WHERE e.session_id = $1 ORDER BY s.last_name, s.first_name`
	var students []models.SessionStudent
	if err := r.db.SelectContext(ctx, &students, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session students: %w", err)
	}
	return students, nil
}

// ListIDs returns every session id for the lifecycle sweep.
func (r *SessionRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM sessions ORDER BY start_date`); err != nil {
		return nil, fmt.Errorf("list session ids: %w", err)
	}
	return ids, nil
}

// RefreshState is what the lifecycle job needs to recompute a session.
type RefreshState struct {
	Status    domain.SessionStatus
	StartDate domain.Date
	EndDate   domain.Date
	Capacity  int
	Enrolled  int
}

// Refresh locks the session row, lets decide compute the new status and
// applies it. When the session has ended its active enrollments are
// deactivated in the same transaction. It returns the number of enrollments
// deactivated.
func (r *SessionRepository) Refresh(ctx context.Context, id string, decide func(RefreshState) (domain.SessionStatus, bool)) (changed bool, deactivated int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("begin session refresh: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var row struct {
		Status    domain.SessionStatus `db:"status"`
		StartDate domain.Date          `db:"start_date"`
		EndDate   domain.Date          `db:"end_date"`
		Capacity  int                  `db:"capacity"`
	}
	if err = tx.GetContext(ctx, &row, `SELECT status, start_date, end_date, capacity FROM sessions WHERE id = $1 FOR UPDATE`, id); err != nil {
		return false, 0, err
	}
	var enrolled int
	if err = tx.GetContext(ctx, &enrolled, `SELECT COUNT(*) FROM enrollments WHERE session_id = $1`, id); err != nil {
		return false, 0, fmt.Errorf("count session enrollments: %w", err)
	}

	state := RefreshState{Status: row.Status, StartDate: row.StartDate, EndDate: row.EndDate, Capacity: row.Capacity, Enrolled: enrolled}
	next, ended := decide(state)
	if next != row.Status {
		if _, err = tx.ExecContext(ctx, `UPDATE sessions SET status = $1, updated_at = $2 WHERE id = $3`, next, time.Now().UTC(), id); err != nil {
			return false, 0, fmt.Errorf("update session status: %w", err)
		}
		changed = true
	}
	if ended {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `UPDATE enrollments SET status = $1, updated_at = $2 WHERE session_id = $3 AND status = $4`,
			domain.EnrollmentInactive, time.Now().UTC(), id, domain.EnrollmentActive)
		if err != nil {
			return false, 0, fmt.Errorf("deactivate enrollments: %w", err)
		}
		deactivated, _ = res.RowsAffected()
	}

	if err = tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit session refresh: %w", err)
	}
	return changed, deactivated, nil
}
