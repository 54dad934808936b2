package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

type invoiceAPI interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*models.InvoiceDetail, error)
}

// InvoiceForm builds and posts a new invoice.
type InvoiceForm struct {
	api    invoiceAPI
	logger *zap.Logger
}

func NewInvoiceForm(api invoiceAPI, logger *zap.Logger) *InvoiceForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceForm{api: api, logger: logger}
}

// Validate checks the reference and every line item.
func (f *InvoiceForm) Validate(req dto.CreateInvoiceRequest) error {
	var errs FieldErrors
	hasEnrollment := req.EnrollmentID != nil && *req.EnrollmentID != ""
	hasLesson := req.PrivateLessonID != nil && *req.PrivateLessonID != ""
	if hasEnrollment == hasLesson {
		errs = append(errs, FieldError{Field: "enrollment_id", Message: "exactly one of enrollment or private lesson is required"})
	}
	if len(req.LineItems) == 0 {
		errs = append(errs, FieldError{Field: "line_items", Message: "at least one line item is required"})
	}
	for i, item := range req.LineItems {
		field := fmt.Sprintf("line_items[%d]", i)
		if item.Description == "" {
			errs = append(errs, FieldError{Field: field + ".description", Message: "required"})
		}
		if err := domain.ValidateLineItem(item); err != nil {
			errs = append(errs, FieldError{Field: field, Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Total is the display total of the line items.
func (f *InvoiceForm) Total(items []domain.LineItem) domain.Money {
	return domain.InvoiceTotal(items)
}

// Submit validates, posts, and returns the stored invoice.
func (f *InvoiceForm) Submit(ctx context.Context, req dto.CreateInvoiceRequest) (*models.InvoiceDetail, error) {
	if err := f.Validate(req); err != nil {
		return nil, err
	}
	invoice, err := f.api.CreateInvoice(ctx, req)
	if err != nil {
		return nil, failure(f.logger, "invoice creation", err)
	}
	return invoice, nil
}
