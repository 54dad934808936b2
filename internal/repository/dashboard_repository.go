package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

// DashboardCounts holds the scalar dashboard figures.
type DashboardCounts struct {
	Courses        int `db:"courses"`
	OpenSessions   int `db:"open_sessions"`
	PrivateLessons int `db:"private_lessons"`
	Students       int `db:"students"`
	ActiveStudents int `db:"active_students"`
}

// DashboardRepository aggregates front-desk statistics.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Counts(ctx context.Context) (*DashboardCounts, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM courses) AS courses,
        (SELECT COUNT(*) FROM sessions WHERE status = 'OPEN') AS open_sessions,
        (SELECT COUNT(*) FROM private_lessons) AS private_lessons,
        (SELECT COUNT(*) FROM students) AS students,
        (SELECT COUNT(DISTINCT student_id) FROM enrollments WHERE status = 'ACTIVE') AS active_students`
	var counts DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}

// Levels returns the student count per language level.
func (r *DashboardRepository) Levels(ctx context.Context) ([]models.LevelCount, error) {
	const query = `SELECT COALESCE(level, '') AS level, COUNT(*) AS count
        FROM students GROUP BY level ORDER BY level`
	var levels []models.LevelCount
	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("dashboard levels: %w", err)
	}
	return levels, nil
}

// OpenSessionSeats lists open sessions that still have seats.
func (r *DashboardRepository) OpenSessionSeats(ctx context.Context) ([]models.OpenSessionSeats, error) {
	const query = `SELECT se.id AS session_id, c.name AS course_name, se.capacity,
        se.capacity - COUNT(e.id) AS seats_left
        FROM sessions se
        JOIN courses c ON c.id = se.course_id
        LEFT JOIN enrollments e ON e.session_id = se.id
        WHERE se.status = 'OPEN'
        GROUP BY se.id, c.name, se.capacity, se.start_date
        HAVING se.capacity - COUNT(e.id) > 0
        ORDER BY se.start_date`
	var seats []models.OpenSessionSeats
	if err := r.db.SelectContext(ctx, &seats, query); err != nil {
		return nil, fmt.Errorf("dashboard open sessions: %w", err)
	}
	return seats, nil
}
