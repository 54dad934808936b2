package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

func TestStudentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "last_name", "first_name", "birth_date", "created_at", "updated_at"}).
		AddRow("stu-1", "Dupont", "Léa", time.Date(2001, 4, 12, 0, 0, 0, 0, time.UTC), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s WHERE 1=1 AND (LOWER(s.last_name) LIKE $1 OR LOWER(s.first_name) LIKE $1) ORDER BY s.last_name, s.first_name LIMIT 20 OFFSET 0")).
		WithArgs("%dup%").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s WHERE 1=1 AND")).
		WithArgs("%dup%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{Search: " Dup "})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2001-04-12", students[0].BirthDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "students_email_key"})

	student := &models.Student{LastName: "Dupont", FirstName: "Léa", BirthDate: domain.MustParseDate("2001-04-12")}
	err := repo.Create(context.Background(), student)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.NotEmpty(t, student.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE LOWER(email) = LOWER($1) AND id <> $2 LIMIT 1")).
		WithArgs("lea@example.ch", "stu-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err := repo.ExistsByEmail(context.Background(), "lea@example.ch", "stu-1")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListActivity(t *testing.T) {
	cases := []struct {
		activity string
		clause   string
	}{
		{models.StudentsActive, "WHERE 1=1 AND EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.status = 'ACTIVE') ORDER BY"},
		{models.StudentsInactive, "WHERE 1=1 AND EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id) AND NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.status = 'ACTIVE') ORDER BY"},
	}
	for _, tc := range cases {
		t.Run(tc.activity, func(t *testing.T) {
			db, mock, cleanup := newMock(t)
			defer cleanup()
			repo := NewStudentRepository(db)

			mock.ExpectQuery(regexp.QuoteMeta(tc.clause)).
				WillReturnRows(sqlmock.NewRows([]string{"id", "last_name", "first_name"}).AddRow("stu-1", "Dupont", "Léa"))
			mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students s WHERE 1=1 AND")).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

			students, total, err := repo.List(context.Background(), models.StudentFilter{Activity: tc.activity})
			require.NoError(t, err)
			assert.Len(t, students, 1)
			assert.Equal(t, 1, total)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
