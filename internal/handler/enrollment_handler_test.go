package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type fakeEnrollmentService struct {
	byID    map[string]*models.EnrollmentDetail
	deleted []string
	created struct {
		studentID string
		req       dto.EnrollmentRequest
	}
	createErr error
}

func (f *fakeEnrollmentService) ListByStudent(context.Context, string) ([]models.EnrollmentDetail, error) {
	return nil, nil
}

func (f *fakeEnrollmentService) Get(_ context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, appErrors.ErrNotFound
}

func (f *fakeEnrollmentService) Create(_ context.Context, studentID string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	f.created.studentID = studentID
	f.created.req = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.EnrollmentDetail{Enrollment: models.Enrollment{ID: "e-new", StudentID: studentID}}, nil
}

func (f *fakeEnrollmentService) Update(context.Context, string, string, dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	return nil, nil
}

func (f *fakeEnrollmentService) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func enrollmentParams(studentID, enrollmentID string) []gin.Param {
	return []gin.Param{{Key: "id", Value: studentID}, {Key: "enrollmentId", Value: enrollmentID}}
}

func TestEnrollmentHandlerGetChecksOwnership(t *testing.T) {
	svc := &fakeEnrollmentService{byID: map[string]*models.EnrollmentDetail{
		"e-1": {Enrollment: models.Enrollment{ID: "e-1", StudentID: "s-1"}},
	}}
	h := NewEnrollmentHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/students/s-1/enrollments/e-1", nil, enrollmentParams("s-1", "e-1")...)
	h.Get(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/students/s-2/enrollments/e-1", nil, enrollmentParams("s-2", "e-1")...)
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEnrollmentHandlerDeleteSkipsForeignEnrollment(t *testing.T) {
	svc := &fakeEnrollmentService{byID: map[string]*models.EnrollmentDetail{
		"e-1": {Enrollment: models.Enrollment{ID: "e-1", StudentID: "s-1"}},
	}}
	h := NewEnrollmentHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/students/s-2/enrollments/e-1", nil, enrollmentParams("s-2", "e-1")...)
	h.Delete(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, svc.deleted)

	c, _ = newTestContext(http.MethodDelete, "/students/s-1/enrollments/e-1", nil, enrollmentParams("s-1", "e-1")...)
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, []string{"e-1"}, svc.deleted)
}

func TestEnrollmentHandlerCreateMapsSessionFull(t *testing.T) {
	svc := &fakeEnrollmentService{createErr: appErrors.ErrSessionFull}
	h := NewEnrollmentHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/students/s-1/enrollments", `{"session_id":"sess-1"}`, gin.Param{Key: "id", Value: "s-1"})
	h.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "s-1", svc.created.studentID)
	assert.Equal(t, "SESSION_FULL", decodeEnvelope(t, rec).Error["code"])
}
