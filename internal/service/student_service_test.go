package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type mockStudentRepo struct {
	students      map[string]models.Student
	existsByEmail map[string]string
	lastFilter    models.StudentFilter
	listTotal     int
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	out := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, m.listTotal, nil
}

func (m *mockStudentRepo) ListPreRegistered(ctx context.Context) ([]models.Student, error) {
	return nil, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	if id, ok := m.existsByEmail[email]; ok {
		if excludeID == "" || id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = "generated"
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	return nil
}

func studentRequest() dto.StudentRequest {
	return dto.StudentRequest{
		LastName:   "Dupont",
		FirstName:  "Zoé",
		BirthDate:  domain.MustParseDate("2001-05-04"),
		BirthPlace: "Lyon",
		Sex:        "F",
		Phone:      "+41 22 123 45 67",
		Email:      "zoe@example.com",
		Country:    "France",
	}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{}, existsByEmail: map[string]string{}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	student, err := svc.Create(context.Background(), studentRequest())
	require.NoError(t, err)
	assert.Equal(t, "generated", student.ID)
	assert.Equal(t, "Dupont", repo.students["generated"].LastName)
}

func TestStudentServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{}, existsByEmail: map[string]string{"zoe@example.com": "stu-1"}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), studentRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceUpdateKeepsOwnEmail(t *testing.T) {
	repo := &mockStudentRepo{
		students:      map[string]models.Student{"stu-1": {ID: "stu-1", LastName: "Dupond", Email: "zoe@example.com"}},
		existsByEmail: map[string]string{"zoe@example.com": "stu-1"},
	}
	svc := NewStudentService(repo, nil, zap.NewNop())

	student, err := svc.Update(context.Background(), "stu-1", studentRequest())
	require.NoError(t, err)
	assert.Equal(t, "Dupont", student.LastName)
}

func TestStudentServiceValidation(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{}, existsByEmail: map[string]string{}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	req := studentRequest()
	req.BirthDate = domain.Date{}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	req = studentRequest()
	req.Email = "not-an-email"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Empty(t, repo.students)
}

func TestStudentServiceListPagination(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"stu-1": {ID: "stu-1"}}, listTotal: 41}
	svc := NewStudentService(repo, nil, zap.NewNop())

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{Search: "dup", Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, "dup", repo.lastFilter.Search)
	assert.Equal(t, 41, pagination.TotalCount)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{}}
	svc := NewStudentService(repo, nil, zap.NewNop())

	assert.ErrorIs(t, svc.Delete(context.Background(), "stu-x"), appErrors.ErrNotFound)
}
