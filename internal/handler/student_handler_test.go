package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
)

type filterRecorder struct {
	filter models.StudentFilter
}

func (f *filterRecorder) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.filter = filter
	return []models.Student{}, 0, nil
}
func (f *filterRecorder) ListPreRegistered(context.Context) ([]models.Student, error) { return nil, nil }
func (f *filterRecorder) FindByID(context.Context, string) (*models.Student, error)    { return nil, nil }
func (f *filterRecorder) ExistsByEmail(context.Context, string, string) (bool, error)  { return false, nil }
func (f *filterRecorder) Create(context.Context, *models.Student) error               { return nil }
func (f *filterRecorder) Update(context.Context, *models.Student) error               { return nil }
func (f *filterRecorder) Delete(context.Context, string) error                        { return nil }

func TestStudentHandlerListActivity(t *testing.T) {
	repo := &filterRecorder{}
	h := NewStudentHandler(service.NewStudentService(repo, nil, nil))

	c, rec := newTestContext(http.MethodGet, "/students?status=Inactive&search=dup", nil)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentsInactive, repo.filter.Activity)
	assert.Equal(t, "dup", repo.filter.Search)

	c, rec = newTestContext(http.MethodGet, "/students?status=active", nil)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StudentsActive, repo.filter.Activity)

	c, rec = newTestContext(http.MethodGet, "/students", nil)
	h.List(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, repo.filter.Activity)
}

func TestStudentHandlerListRejectsUnknownStatus(t *testing.T) {
	repo := &filterRecorder{}
	h := NewStudentHandler(service.NewStudentService(repo, nil, nil))

	c, rec := newTestContext(http.MethodGet, "/students?status=dormant", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error["code"])
}
