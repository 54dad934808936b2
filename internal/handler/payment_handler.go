package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type paymentService interface {
	Create(ctx context.Context, invoiceID string, req dto.PaymentRequest) (*models.Payment, error)
	Get(ctx context.Context, id string) (*models.PaymentDetail, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
}

// PaymentHandler records and lists payments.
type PaymentHandler struct {
	payments paymentService
}

func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create godoc
// @Summary Record a payment against an invoice
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param payload body dto.PaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /invoices/{id}/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req dto.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.payments.Create(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, payment)
}

// ListByInvoice godoc
// @Summary List payments of an invoice
// @Tags Payments
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Envelope
// @Router /invoices/{id}/payments [get]
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	payments, err := h.payments.ListByInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, nil)
}

// List godoc
// @Summary List payments
// @Tags Payments
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param invoice_id query string false "Filter by invoice"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	h.list(c, models.PaymentFilter{StudentID: c.Query("student_id"), InvoiceID: c.Query("invoice_id")})
}

// ListByStudent godoc
// @Summary List a student's payments
// @Tags Payments
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/payments [get]
func (h *PaymentHandler) ListByStudent(c *gin.Context) {
	h.list(c, models.PaymentFilter{StudentID: c.Param("id")})
}

func (h *PaymentHandler) list(c *gin.Context, filter models.PaymentFilter) {
	filter.Page, filter.PageSize = pageParams(c)
	payments, pagination, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payments, pagination)
}

// Get godoc
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// Delete godoc
// @Summary Delete payment
// @Tags Payments
// @Param id path string true "Payment ID"
// @Success 204
// @Router /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.payments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
