package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

// PlacementRepository persists students' placement tests.
type PlacementRepository struct {
	db *sqlx.DB
}

func NewPlacementRepository(db *sqlx.DB) *PlacementRepository {
	return &PlacementRepository{db: db}
}

// ListByStudent returns a student's tests, latest first.
func (r *PlacementRepository) ListByStudent(ctx context.Context, studentID string) ([]models.PlacementTest, error) {
	const query = `SELECT id, student_id, test_date, level, score, created_at FROM placement_tests
        WHERE student_id = $1 ORDER BY test_date DESC, created_at DESC`
	var tests []models.PlacementTest
	if err := r.db.SelectContext(ctx, &tests, query, studentID); err != nil {
		return nil, fmt.Errorf("list placement tests: %w", err)
	}
	return tests, nil
}

func (r *PlacementRepository) Create(ctx context.Context, test *models.PlacementTest) error {
	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	test.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO placement_tests (id, student_id, test_date, level, score, created_at)
        VALUES (:id, :student_id, :test_date, :level, :score, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, test); err != nil {
		return mapWriteError("create placement test", err)
	}
	return nil
}

// Delete removes one of the student's tests; a test of another student is
// reported as missing.
func (r *PlacementRepository) Delete(ctx context.Context, studentID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM placement_tests WHERE id = $1 AND student_id = $2`, id, studentID)
	if err != nil {
		return fmt.Errorf("delete placement test: %w", err)
	}
	return expectAffected(res)
}
