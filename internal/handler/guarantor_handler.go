package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type guarantorService interface {
	Get(ctx context.Context, studentID string) (*models.Guarantor, error)
	Assign(ctx context.Context, studentID string, req dto.GuarantorRequest) (*models.Guarantor, error)
	Remove(ctx context.Context, studentID string) error
}

// GuarantorHandler exposes the guarantor attached to a student.
type GuarantorHandler struct {
	guarantors guarantorService
}

func NewGuarantorHandler(guarantors guarantorService) *GuarantorHandler {
	return &GuarantorHandler{guarantors: guarantors}
}

// Get godoc
// @Summary Get a student's guarantor
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/guarantor [get]
func (h *GuarantorHandler) Get(c *gin.Context) {
	g, err := h.guarantors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, g, nil)
}

// Assign godoc
// @Summary Attach a guarantor to a student
// @Description Reuses a guarantor already on file with the same names, phone and email.
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.GuarantorRequest true "Guarantor payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/guarantor [post]
func (h *GuarantorHandler) Assign(c *gin.Context) {
	var req dto.GuarantorRequest
	if !bindJSON(c, &req) {
		return
	}
	g, err := h.guarantors.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, g, nil)
}

// Remove godoc
// @Summary Detach a student's guarantor
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/guarantor [delete]
func (h *GuarantorHandler) Remove(c *gin.Context) {
	if err := h.guarantors.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
