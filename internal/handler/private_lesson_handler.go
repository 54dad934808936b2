package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

// PrivateLessonHandler exposes private lesson endpoints.
type PrivateLessonHandler struct {
	lessons *service.PrivateLessonService
}

func NewPrivateLessonHandler(lessons *service.PrivateLessonService) *PrivateLessonHandler {
	return &PrivateLessonHandler{lessons: lessons}
}

// List godoc
// @Summary List private lessons
// @Tags PrivateLessons
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /private-lessons [get]
func (h *PrivateLessonHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	lessons, pagination, err := h.lessons.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, pagination)
}

// ListByStudent godoc
// @Summary List a student's private lessons
// @Tags PrivateLessons
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/private-lessons [get]
func (h *PrivateLessonHandler) ListByStudent(c *gin.Context) {
	lessons, err := h.lessons.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// Get godoc
// @Summary Get private lesson
// @Tags PrivateLessons
// @Produce json
// @Param id path string true "Private lesson ID"
// @Success 200 {object} response.Envelope
// @Router /private-lessons/{id} [get]
func (h *PrivateLessonHandler) Get(c *gin.Context) {
	lesson, err := h.lessons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Create godoc
// @Summary Create private lesson
// @Tags PrivateLessons
// @Accept json
// @Produce json
// @Param payload body dto.PrivateLessonRequest true "Private lesson payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /private-lessons [post]
func (h *PrivateLessonHandler) Create(c *gin.Context) {
	var req dto.PrivateLessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update private lesson
// @Tags PrivateLessons
// @Accept json
// @Produce json
// @Param id path string true "Private lesson ID"
// @Param payload body dto.PrivateLessonRequest true "Private lesson payload"
// @Success 200 {object} response.Envelope
// @Router /private-lessons/{id} [put]
func (h *PrivateLessonHandler) Update(c *gin.Context) {
	var req dto.PrivateLessonRequest
	if !bindJSON(c, &req) {
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson, nil)
}

// Delete godoc
// @Summary Delete private lesson
// @Tags PrivateLessons
// @Param id path string true "Private lesson ID"
// @Success 204
// @Router /private-lessons/{id} [delete]
func (h *PrivateLessonHandler) Delete(c *gin.Context) {
	if err := h.lessons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
