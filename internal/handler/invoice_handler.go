package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type invoiceService interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceView, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.InvoiceDetail, error)
	LineItems(ctx context.Context, id string) ([]models.LineItem, error)
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (*models.InvoiceDetail, error)
	SetDueDate(ctx context.Context, id string, req dto.DueDateRequest) (*models.InvoiceDetail, error)
	Delete(ctx context.Context, id string) error
	PDF(ctx context.Context, id string) ([]byte, string, error)
}

// InvoiceHandler exposes billing endpoints.
type InvoiceHandler struct {
	invoices invoiceService
}

func NewInvoiceHandler(invoices invoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param status query string false "all, paid or unpaid"
// @Param student_id query string false "Filter by student"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	h.list(c, c.Query("student_id"))
}

// ListByStudent godoc
// @Summary List a student's invoices
// @Tags Invoices
// @Produce json
// @Param id path string true "Student ID"
// @Param status query string false "all, paid or unpaid"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/invoices [get]
func (h *InvoiceHandler) ListByStudent(c *gin.Context) {
	h.list(c, c.Param("id"))
}

func (h *InvoiceHandler) list(c *gin.Context, studentID string) {
	status, err := invoiceStatusQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.InvoiceFilter{StudentID: studentID, Status: status}
	filter.Page, filter.PageSize = pageParams(c)

	invoices, pagination, err := h.invoices.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, pagination)
}

// Get godoc
// @Summary Get invoice with line items and payments
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// LineItems godoc
// @Summary List invoice line items
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/line-items [get]
func (h *InvoiceHandler) LineItems(c *gin.Context) {
	items, err := h.invoices.LineItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param payload body dto.CreateInvoiceRequest true "Invoice payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, invoice)
}

// SetDueDate godoc
// @Summary Set or clear the invoice due date
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body dto.DueDateRequest true "Due date"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/due-date [patch]
func (h *InvoiceHandler) SetDueDate(c *gin.Context) {
	var req dto.DueDateRequest
	if !bindJSON(c, &req) {
		return
	}
	invoice, err := h.invoices.SetDueDate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoice, nil)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PDF godoc
// @Summary Download the invoice as PDF
// @Tags Invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Router /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	payload, filename, err := h.invoices.PDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, "application/pdf", payload)
}
