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

type mockEnrollmentRepo struct {
	enrollments map[string]models.EnrollmentDetail
	exists      bool
	created     []models.Enrollment
	updated     []models.Enrollment
	deleted     []string
}

func (m *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	var out []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, studentID, sessionID, excludeID string) (bool, error) {
	return m.exists, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "enr-new"
	m.created = append(m.created, *enrollment)
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	m.updated = append(m.updated, *enrollment)
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.enrollments, id)
	return nil
}

type mockSessionLookup struct {
	sessions map[string]models.SessionDetail
}

func (m *mockSessionLookup) FindByID(ctx context.Context, id string) (*models.SessionDetail, error) {
	if s, ok := m.sessions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type mockStudentLookup struct{}

func (mockStudentLookup) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Student{ID: id}, nil
}

type recordingRefresher struct {
	ids []string
}

func (r *recordingRefresher) ScheduleRefresh(id string) { r.ids = append(r.ids, id) }

func sessionDetail(id, end string, capacity, enrolled int) models.SessionDetail {
	return models.SessionDetail{
		Session: models.Session{
			ID:        id,
			StartDate: domain.MustParseDate("2025-01-06"),
			EndDate:   domain.MustParseDate(end),
			Capacity:  capacity,
		},
		Enrolled: enrolled,
	}
}

func newEnrollmentFixture() (*EnrollmentService, *mockEnrollmentRepo, *recordingRefresher) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.EnrollmentDetail{}}
	sessions := &mockSessionLookup{sessions: map[string]models.SessionDetail{
		"ses-feb":  sessionDetail("ses-feb", "2025-02-28", 10, 3),
		"ses-full": sessionDetail("ses-full", "2025-06-30", 2, 2),
		"ses-jun":  sessionDetail("ses-jun", "2025-06-30", 10, 0),
	}}
	refresher := &recordingRefresher{}
	svc := NewEnrollmentService(repo, sessions, mockStudentLookup{}, refresher, nil, nil, zap.NewNop())
	return svc, repo, refresher
}

func TestEnrollmentServiceCreateDerivesStatus(t *testing.T) {
	svc, repo, refresher := newEnrollmentFixture()

	_, err := svc.Create(context.Background(), "stu-1", dto.EnrollmentRequest{
		SessionID:    "ses-feb",
		RegisteredOn: domain.MustParseDate("2025-03-01"),
		Fee:          domain.MustParseMoney("450"),
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.EnrollmentInactive, repo.created[0].Status)
	assert.Equal(t, []string{"ses-feb"}, refresher.ids)

	_, err = svc.Create(context.Background(), "stu-2", dto.EnrollmentRequest{
		SessionID:    "ses-feb",
		RegisteredOn: domain.MustParseDate("2025-02-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentActive, repo.created[1].Status)
}

func TestEnrollmentServiceCreateRejectsFullSession(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture()

	_, err := svc.Create(context.Background(), "stu-1", dto.EnrollmentRequest{
		SessionID:    "ses-full",
		RegisteredOn: domain.MustParseDate("2025-02-15"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrSessionFull)
	assert.Empty(t, repo.created)
}

func TestEnrollmentServiceCreateRejectsDuplicate(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture()
	repo.exists = true

	_, err := svc.Create(context.Background(), "stu-1", dto.EnrollmentRequest{
		SessionID:    "ses-jun",
		RegisteredOn: domain.MustParseDate("2025-02-15"),
	})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyEnrolled)
}

func TestEnrollmentServiceCreateValidatesExitDate(t *testing.T) {
	svc, _, _ := newEnrollmentFixture()
	exit := domain.MustParseDate("2025-02-01")

	_, err := svc.Create(context.Background(), "stu-1", dto.EnrollmentRequest{
		SessionID:    "ses-jun",
		RegisteredOn: domain.MustParseDate("2025-02-15"),
		ExitDate:     &exit,
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestEnrollmentServiceUpdateKeepsSubmittedStatus(t *testing.T) {
	svc, repo, refresher := newEnrollmentFixture()
	repo.enrollments["enr-1"] = models.EnrollmentDetail{Enrollment: models.Enrollment{
		ID: "enr-1", StudentID: "stu-1", SessionID: "ses-feb", Status: domain.EnrollmentActive,
		RegisteredOn: domain.MustParseDate("2025-01-10"),
	}}

	_, err := svc.Update(context.Background(), "stu-1", "enr-1", dto.EnrollmentRequest{
		SessionID:    "ses-jun",
		RegisteredOn: domain.MustParseDate("2025-03-01"),
		Status:       domain.EnrollmentInactive,
	})
	require.NoError(t, err)
	require.Len(t, repo.updated, 1)
	assert.Equal(t, domain.EnrollmentInactive, repo.updated[0].Status)
	assert.Equal(t, "ses-jun", repo.updated[0].SessionID)
	assert.ElementsMatch(t, []string{"ses-jun", "ses-feb"}, refresher.ids)
}

func TestEnrollmentServiceUpdateOtherStudentIsNotFound(t *testing.T) {
	svc, repo, _ := newEnrollmentFixture()
	repo.enrollments["enr-1"] = models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "enr-1", StudentID: "stu-1", SessionID: "ses-feb"}}

	_, err := svc.Update(context.Background(), "stu-2", "enr-1", dto.EnrollmentRequest{
		SessionID:    "ses-feb",
		RegisteredOn: domain.MustParseDate("2025-01-10"),
	})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
