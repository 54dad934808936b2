package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type attendanceService interface {
	CreateSheet(ctx context.Context, sessionID string, req dto.AttendanceSheetRequest) (*models.AttendanceSheetDetail, error)
	ListSheets(ctx context.Context, sessionID string) ([]models.AttendanceSheet, error)
	Get(ctx context.Context, id string) (*models.AttendanceSheetDetail, error)
	UpdateStatuses(ctx context.Context, id string, updates []domain.StatusUpdate) (*models.AttendanceSheetDetail, error)
	Delete(ctx context.Context, id string) error
	ExportCSV(ctx context.Context, id string) ([]byte, string, error)
}

// AttendanceHandler exposes month-sheet endpoints.
type AttendanceHandler struct {
	attendance attendanceService
}

func NewAttendanceHandler(attendance attendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// CreateSheet godoc
// @Summary Create the attendance sheet of a month
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.AttendanceSheetRequest true "Month and year"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions/{id}/attendance-sheets [post]
func (h *AttendanceHandler) CreateSheet(c *gin.Context) {
	var req dto.AttendanceSheetRequest
	if !bindJSON(c, &req) {
		return
	}
	sheet, err := h.attendance.CreateSheet(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sheet)
}

// ListSheets godoc
// @Summary List the attendance sheets of a session
// @Tags Attendance
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/attendance-sheets [get]
func (h *AttendanceHandler) ListSheets(c *gin.Context) {
	sheets, err := h.attendance.ListSheets(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets, nil)
}

// Get godoc
// @Summary Get an attendance sheet with its records
// @Tags Attendance
// @Produce json
// @Param id path string true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /attendance-sheets/{id} [get]
func (h *AttendanceHandler) Get(c *gin.Context) {
	sheet, err := h.attendance.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// UpdateStatuses godoc
// @Summary Save record statuses in bulk
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Sheet ID"
// @Param payload body []domain.StatusUpdate true "Record statuses"
// @Success 200 {object} response.Envelope
// @Router /attendance-sheets/{id}/records [put]
func (h *AttendanceHandler) UpdateStatuses(c *gin.Context) {
	var updates []domain.StatusUpdate
	if !bindJSON(c, &updates) {
		return
	}
	sheet, err := h.attendance.UpdateStatuses(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Delete godoc
// @Summary Delete an attendance sheet
// @Tags Attendance
// @Param id path string true "Sheet ID"
// @Success 204
// @Router /attendance-sheets/{id} [delete]
func (h *AttendanceHandler) Delete(c *gin.Context) {
	if err := h.attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export an attendance sheet as CSV
// @Tags Attendance
// @Produce text/csv
// @Param id path string true "Sheet ID"
// @Success 200 {file} binary
// @Router /attendance-sheets/{id}/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	payload, filename, err := h.attendance.ExportCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "text/csv; charset=utf-8", payload)
}
