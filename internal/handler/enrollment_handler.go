package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type enrollmentService interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	Get(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	Create(ctx context.Context, studentID string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error)
	Update(ctx context.Context, studentID, id string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error)
	Delete(ctx context.Context, id string) error
}

// EnrollmentHandler exposes a student's enrollments.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// List godoc
// @Summary List a student's enrollments
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.enrollments.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Get godoc
// @Summary Get an enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Student ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments/{enrollmentId} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	enrollment, ok := h.owned(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Create godoc
// @Summary Enroll a student into a session
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req dto.EnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Update godoc
// @Summary Update an enrollment
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Param payload body dto.EnrollmentRequest true "Enrollment payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollments/{enrollmentId} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	var req dto.EnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.Update(c.Request.Context(), c.Param("id"), c.Param("enrollmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Delete godoc
// @Summary Delete an enrollment
// @Tags Enrollments
// @Param id path string true "Student ID"
// @Param enrollmentId path string true "Enrollment ID"
// @Success 204
// @Router /students/{id}/enrollments/{enrollmentId} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	if _, ok := h.owned(c); !ok {
		return
	}
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("enrollmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// owned loads the enrollment in the path and checks it belongs to the
// student in the path.
func (h *EnrollmentHandler) owned(c *gin.Context) (*models.EnrollmentDetail, bool) {
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("enrollmentId"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if enrollment.StudentID != c.Param("id") {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found"))
		return nil, false
	}
	return enrollment, true
}
