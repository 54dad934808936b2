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

const privateLessonSelect = `SELECT pl.id, pl.lesson_date, pl.start_time, pl.end_time, pl.fee, pl.place, pl.teacher_id, pl.created_at, pl.updated_at,
        t.first_name || ' ' || t.last_name AS teacher_name
        FROM private_lessons pl
        JOIN teachers t ON t.id = pl.teacher_id`

// PrivateLessonRepository persists private lessons and their attendees.
type PrivateLessonRepository struct {
	db *sqlx.DB
}

func NewPrivateLessonRepository(db *sqlx.DB) *PrivateLessonRepository {
	return &PrivateLessonRepository{db: db}
}

// List returns lessons, latest first.
func (r *PrivateLessonRepository) List(ctx context.Context, page, size int) ([]models.PrivateLessonDetail, int, error) {
	page, size = models.NormalizePage(page, size)
	query := fmt.Sprintf("%s ORDER BY pl.lesson_date DESC, pl.start_time LIMIT %d OFFSET %d", privateLessonSelect, size, offset(page, size))
	var lessons []models.PrivateLessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query); err != nil {
		return nil, 0, fmt.Errorf("list private lessons: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM private_lessons`); err != nil {
		return nil, 0, fmt.Errorf("count private lessons: %w", err)
	}
	if err := r.attachStudents(ctx, lessons); err != nil {
		return nil, 0, err
	}
	return lessons, total, nil
}

// ListByStudent returns the lessons a student attends.
func (r *PrivateLessonRepository) ListByStudent(ctx context.Context, studentID string) ([]models.PrivateLessonDetail, error) {
	query := privateLessonSelect + ` WHERE pl.id IN (SELECT lesson_id FROM private_lesson_students WHERE student_id = $1)
        ORDER BY pl.lesson_date DESC, pl.start_time`
	var lessons []models.PrivateLessonDetail
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, fmt.Errorf("list student private lessons: %w", err)
	}
	if err := r.attachStudents(ctx, lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

// ListByTeacherOn returns a teacher's other lessons on date.
func (r *PrivateLessonRepository) ListByTeacherOn(ctx context.Context, teacherID string, date domain.Date, excludeID string) ([]models.PrivateLesson, error) {
	query := `SELECT id, lesson_date, start_time, end_time, fee, place, teacher_id, created_at, updated_at
        FROM private_lessons WHERE teacher_id = $1 AND lesson_date = $2`
	args := []interface{}{teacherID, date}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var lessons []models.PrivateLesson
	if err := r.db.SelectContext(ctx, &lessons, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher lessons: %w", err)
	}
	return lessons, nil
}

func (r *PrivateLessonRepository) FindByID(ctx context.Context, id string) (*models.PrivateLessonDetail, error) {
	var lesson models.PrivateLessonDetail
	if err := r.db.GetContext(ctx, &lesson, privateLessonSelect+" WHERE pl.id = $1", id); err != nil {
		return nil, err
	}
	lessons := []models.PrivateLessonDetail{lesson}
	if err := r.attachStudents(ctx, lessons); err != nil {
		return nil, err
	}
	return &lessons[0], nil
}

// Create inserts the lesson and its attendee links in one transaction.
func (r *PrivateLessonRepository) Create(ctx context.Context, lesson *models.PrivateLesson) (err error) {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin private lesson transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO private_lessons (id, lesson_date, start_time, end_time, fee, place, teacher_id, created_at, updated_at)
        VALUES (:id, :lesson_date, :start_time, :end_time, :fee, :place, :teacher_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, lesson); err != nil {
		return mapWriteError("create private lesson", err)
	}
	if err = insertAttendees(ctx, tx, lesson.ID, lesson.StudentIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit private lesson: %w", err)
	}
	return nil
}

// Update replaces the lesson fields and its attendee set.
func (r *PrivateLessonRepository) Update(ctx context.Context, lesson *models.PrivateLesson) (err error) {
	lesson.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin private lesson transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE private_lessons SET lesson_date = :lesson_date, start_time = :start_time, end_time = :end_time, fee = :fee,
        place = :place, teacher_id = :teacher_id, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, lesson); err != nil {
		return mapWriteError("update private lesson", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM private_lesson_students WHERE lesson_id = $1`, lesson.ID); err != nil {
		return fmt.Errorf("clear private lesson students: %w", err)
	}
	if err = insertAttendees(ctx, tx, lesson.ID, lesson.StudentIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit private lesson: %w", err)
	}
	return nil
}

func (r *PrivateLessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM private_lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete private lesson: %w", err)
	}
	return expectAffected(res)
}

func insertAttendees(ctx context.Context, tx *sqlx.Tx, lessonID string, studentIDs []string) error {
	const query = `INSERT INTO private_lesson_students (lesson_id, student_id) SELECT $1, UNNEST($2::uuid[])`
	if _, err := tx.ExecContext(ctx, query, lessonID, pq.Array(studentIDs)); err != nil {
		return mapWriteError("link private lesson students", err)
	}
	return nil
}

func (r *PrivateLessonRepository) attachStudents(ctx context.Context, lessons []models.PrivateLessonDetail) error {
	if len(lessons) == 0 {
		return nil
	}
	ids := make([]string, 0, len(lessons))
	index := make(map[string]int, len(lessons))
	for i, lesson := range lessons {
		ids = append(ids, lesson.ID)
		index[lesson.ID] = i
		lessons[i].StudentIDs = []string{}
	}

	var links []struct {
		LessonID  string `db:"lesson_id"`
		StudentID string `db:"student_id"`
	}
	const query = `SELECT lesson_id, student_id FROM private_lesson_students WHERE lesson_id = ANY($1::uuid[]) ORDER BY lesson_id, student_id`
	if err := r.db.SelectContext(ctx, &links, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load private lesson students: %w", err)
	}
	for _, link := range links {
		if i, ok := index[link.LessonID]; ok {
			lessons[i].StudentIDs = append(lessons[i].StudentIDs, link.StudentID)
		}
	}
	return nil
}
