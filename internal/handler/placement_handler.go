package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type placementService interface {
	List(ctx context.Context, studentID string) ([]models.PlacementTest, error)
	Create(ctx context.Context, studentID string, req dto.PlacementTestRequest) (*models.PlacementTest, error)
	Delete(ctx context.Context, studentID, id string) error
}

// PlacementHandler exposes a student's placement tests.
type PlacementHandler struct {
	tests placementService
}

func NewPlacementHandler(tests placementService) *PlacementHandler {
	return &PlacementHandler{tests: tests}
}

// List godoc
// @Summary List a student's placement tests
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/placement-tests [get]
func (h *PlacementHandler) List(c *gin.Context) {
	tests, err := h.tests.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tests, nil)
}

// Create godoc
// @Summary Record a placement test
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.PlacementTestRequest true "Placement test payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/placement-tests [post]
func (h *PlacementHandler) Create(c *gin.Context) {
	var req dto.PlacementTestRequest
	if !bindJSON(c, &req) {
		return
	}
	test, err := h.tests.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, test)
}

// Delete godoc
// @Summary Delete a placement test
// @Tags Students
// @Param id path string true "Student ID"
// @Param testId path string true "Placement test ID"
// @Success 204
// @Router /students/{id}/placement-tests/{testId} [delete]
func (h *PlacementHandler) Delete(c *gin.Context) {
	if err := h.tests.Delete(c.Request.Context(), c.Param("id"), c.Param("testId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
