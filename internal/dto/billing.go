package dto

import "github.com/DrExperiment/ecole-peg-sub000/internal/domain"

// CreateInvoiceRequest links an invoice to exactly one enrollment or private
// lesson. StudentID is required for private lessons and derived from the
// enrollment otherwise.
type CreateInvoiceRequest struct {
	StudentID       string            `json:"student_id,omitempty"`
	EnrollmentID    *string           `json:"enrollment_id,omitempty"`
	PrivateLessonID *string           `json:"private_lesson_id,omitempty"`
	IssuedOn        *domain.Date      `json:"issued_on,omitempty"`
	DueDate         *domain.Date      `json:"due_date,omitempty"`
	LineItems       []domain.LineItem `json:"line_items" validate:"required,min=1,dive"`
}

// DueDateRequest sets or clears the due date of an invoice.
type DueDateRequest struct {
	DueDate *domain.Date `json:"due_date"`
}

// PaymentRequest records a payment on an invoice.
type PaymentRequest struct {
	Amount  domain.Money          `json:"amount"`
	PaidOn  *domain.Date          `json:"paid_on,omitempty"`
	Channel domain.PaymentChannel `json:"channel" validate:"required,oneof=PERSONAL BPA CAF HOSPICE OTHER"`
	Method  *domain.PaymentMethod `json:"method,omitempty" validate:"omitempty,oneof=CASH TRANSFER CARD PHONE"`
}

// AttendanceSheetRequest creates the month-sheet of a session.
type AttendanceSheetRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2020,max=2050"`
}
