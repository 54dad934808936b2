package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const studentColumns = `s.id, s.last_name, s.first_name, s.birth_date, s.birth_place, s.sex, s.phone, s.email,
        s.street, s.street_number, s.postcode, s.locality, s.billing_address, s.country, s.level,
        s.native_language, s.other_languages, s.comments, s.guarantor_id, s.created_at, s.updated_at`

const activeEnrollment = `EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.status = 'ACTIVE')`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters ordered by name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.last_name) LIKE $%d OR LOWER(s.first_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(filter.Search))+"%")
	}
	if filter.BirthDate != nil {
		conditions = append(conditions, fmt.Sprintf("s.birth_date = $%d", len(args)+1))
		args = append(args, *filter.BirthDate)
	}
	switch filter.Activity {
	case models.StudentsActive:
		conditions = append(conditions, activeEnrollment)
	case models.StudentsInactive:
		conditions = append(conditions, "EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id)", "NOT "+activeEnrollment)
	}

	base := fmt.Sprintf("FROM students s WHERE %s", strings.Join(conditions, " AND "))
	page, size := models.NormalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY s.last_name, s.first_name LIMIT %d OFFSET %d", studentColumns, base, size, offset(page, size))
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// ListPreRegistered returns students holding at least one pre-registration.
func (r *StudentRepository) ListPreRegistered(ctx context.Context) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students s
        WHERE EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.pre_registration)
        ORDER BY s.last_name, s.first_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list pre-registered students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByEmail checks if another student already uses email.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE LOWER(email) = LOWER($1)"
	args := []interface{}{email}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check email: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, last_name, first_name, birth_date, birth_place, sex, phone, email, street, street_number,
        postcode, locality, billing_address, country, level, native_language, other_languages, comments, created_at, updated_at)
        VALUES (:id, :last_name, :first_name, :birth_date, :birth_place, :sex, :phone, :email, :street, :street_number,
        :postcode, :locality, :billing_address, :country, :level, :native_language, :other_languages, :comments, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return mapWriteError("create student", err)
	}
	return nil
}

// Update replaces an existing student's fields.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET last_name = :last_name, first_name = :first_name, birth_date = :birth_date,
        birth_place = :birth_place, sex = :sex, phone = :phone, email = :email, street = :street, street_number = :street_number,
        postcode = :postcode, locality = :locality, billing_address = :billing_address, country = :country, level = :level,
        native_language = :native_language, other_languages = :other_languages, comments = :comments, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return mapWriteError("update student", err)
	}
	return nil
}

// Delete removes a student; enrollments, invoices and attendance cascade.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return expectAffected(res)
}

// Address returns the postal address used on a student's invoices.
func (r *StudentRepository) Address(ctx context.Context, id string) (*models.StudentAddress, error) {
	var address models.StudentAddress
	const query = `SELECT street, street_number, postcode, locality, billing_address FROM students WHERE id = $1`
	if err := r.db.GetContext(ctx, &address, query, id); err != nil {
		return nil, err
	}
	return &address, nil
}

// Birthdays lists students born in month, ordered by day.
func (r *StudentRepository) Birthdays(ctx context.Context, month int) ([]models.BirthdayEntry, error) {
	const query = `SELECT id, last_name, first_name, birth_date FROM students
        WHERE EXTRACT(MONTH FROM birth_date) = $1 ORDER BY EXTRACT(DAY FROM birth_date), last_name`
	var entries []models.BirthdayEntry
	if err := r.db.SelectContext(ctx, &entries, query, month); err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return entries, nil
}

