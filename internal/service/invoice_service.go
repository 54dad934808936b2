package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/export"
)

type invoiceRepository interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceSummary, int, error)
	FindByID(ctx context.Context, id string) (*models.InvoiceSummary, error)
	LineItems(ctx context.Context, invoiceID string) ([]models.LineItem, error)
	Create(ctx context.Context, invoice *models.Invoice, lines []domain.LineItem) ([]models.LineItem, error)
	SetDueDate(ctx context.Context, id string, due *domain.Date) error
	Delete(ctx context.Context, id string) error
}

type invoicePaymentLister interface {
	ListByInvoice(ctx context.Context, invoiceID string) ([]models.Payment, error)
}

type invoiceAddressLookup interface {
	Address(ctx context.Context, studentID string) (*models.StudentAddress, error)
}

type invoiceEnrollmentLookup interface {
	FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
}

type invoiceLessonLookup interface {
	FindByID(ctx context.Context, id string) (*models.PrivateLessonDetail, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// InvoiceConfig carries the rendering settings of invoices.
type InvoiceConfig struct {
	Currency   string
	SchoolName string
}

// InvoiceDeps groups the collaborators of InvoiceService.
type InvoiceDeps struct {
	Invoices    invoiceRepository
	Payments    invoicePaymentLister
	Students    invoiceAddressLookup
	Enrollments invoiceEnrollmentLookup
	Lessons     invoiceLessonLookup
	Renderer    documentRenderer
	Stats       statsInvalidator
	Clock       Clock
}

// InvoiceService builds and reads invoices. Totals, paid amounts and status
// are always derived from line items and payments.
type InvoiceService struct {
	deps      InvoiceDeps
	config    InvoiceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

func NewInvoiceService(deps InvoiceDeps, config InvoiceConfig, validate *validator.Validate, logger *zap.Logger) *InvoiceService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Renderer == nil {
		deps.Renderer = export.NewPDFExporter()
	}
	if deps.Stats == nil {
		deps.Stats = noopInvalidator{}
	}
	deps.Clock = defaultClock(deps.Clock)
	if config.Currency == "" {
		config.Currency = "CHF"
	}
	return &InvoiceService{deps: deps, config: config, validator: validate, logger: logger}
}

// List returns invoices with their derived balance.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceView, *models.Pagination, error) {
	summaries, total, err := s.deps.Invoices.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invoices")
	}
	views := make([]models.InvoiceView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, summary.View())
	}
	return views, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns an invoice with its lines, payments and billing address.
func (s *InvoiceService) Get(ctx context.Context, id string) (*models.InvoiceDetail, error) {
	summary, err := s.deps.Invoices.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "invoice not found", "failed to load invoice")
	}
	lines, err := s.deps.Invoices.LineItems(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice lines")
	}
	payments, err := s.deps.Payments.ListByInvoice(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice payments")
	}
	address, err := s.deps.Students.Address(ctx, summary.StudentID)
	if err != nil {
		return nil, repoError(err, "student not found", "failed to load student address")
	}

	summary.Total = domain.InvoiceTotal(lineValues(lines))
	summary.Paid = domain.Sum(models.Amounts(payments))
	return &models.InvoiceDetail{
		InvoiceView: summary.View(),
		Address:     *address,
		LineItems:   lines,
		Payments:    payments,
	}, nil
}

// LineItems returns the lines of an invoice.
func (s *InvoiceService) LineItems(ctx context.Context, id string) ([]models.LineItem, error) {
	if _, err := s.deps.Invoices.FindByID(ctx, id); err != nil {
		return nil, repoError(err, "invoice not found", "failed to load invoice")
	}
	lines, err := s.deps.Invoices.LineItems(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice lines")
	}
	return lines, nil
}

// Create stores an invoice for exactly one enrollment or private lesson.
func (s *InvoiceService) Create(ctx context.Context, req dto.CreateInvoiceRequest) (*models.InvoiceDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid invoice payload")
	}
	for i, item := range req.LineItems {
		if err := domain.ValidateLineItem(item); err != nil {
			return nil, validationError(err, fmt.Sprintf("line %d: %s", i+1, err))
		}
	}
	studentID, err := s.resolveStudent(ctx, req)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		StudentID:       studentID,
		DueDate:         req.DueDate,
		EnrollmentID:    req.EnrollmentID,
		PrivateLessonID: req.PrivateLessonID,
	}
	if req.IssuedOn != nil && !req.IssuedOn.IsZero() {
		invoice.IssuedOn = *req.IssuedOn
	} else {
		invoice.IssuedOn = s.deps.Clock()
	}
	if _, err := s.deps.Invoices.Create(ctx, invoice, req.LineItems); err != nil {
		return nil, repoError(err, "student not found", "failed to create invoice")
	}
	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID), zap.String("student_id", studentID), zap.Int("number", invoice.Number),
		zap.String("total", domain.InvoiceTotal(req.LineItems).String()))
	s.deps.Stats.InvalidateStats(ctx)
	return s.Get(ctx, invoice.ID)
}

// SetDueDate sets or clears the due date.
func (s *InvoiceService) SetDueDate(ctx context.Context, id string, req dto.DueDateRequest) (*models.InvoiceDetail, error) {
	if err := s.deps.Invoices.SetDueDate(ctx, id, req.DueDate); err != nil {
		return nil, repoError(err, "invoice not found", "failed to update invoice")
	}
	return s.Get(ctx, id)
}

// Delete removes an invoice; the student's later invoices are renumbered.
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	if err := s.deps.Invoices.Delete(ctx, id); err != nil {
		return repoError(err, "invoice not found", "failed to delete invoice")
	}
	s.deps.Stats.InvalidateStats(ctx)
	return nil
}

// PDF renders the printable invoice and a download file name.
func (s *InvoiceService) PDF(ctx context.Context, id string) ([]byte, string, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{Headers: []string{"Description", "Période", "Montant"}}
	for _, line := range detail.LineItems {
		data.Rows = append(data.Rows, map[string]string{
			"Description": line.Description,
			"Période":     period(line.PeriodStart, line.PeriodEnd),
			"Montant":     line.Amount.Format(s.config.Currency),
		})
	}
	reference := []string{fmt.Sprintf("Date : %s", detail.IssuedOn)}
	if detail.DueDate != nil {
		reference = append(reference, fmt.Sprintf("Échéance : %s", detail.DueDate))
	}
	addressee := append([]string{detail.StudentFirstName + " " + detail.StudentLastName}, detail.Address.Lines()...)

	doc := export.Document{
		Issuer:    s.config.SchoolName,
		Title:     fmt.Sprintf("Facture n° %d", detail.Number),
		Reference: reference,
		Addressee: addressee,
		Table:     data,
		Widths:    []float64{100, 50, 40},
		Summary: [][2]string{
			{"Total", detail.Total.Format(s.config.Currency)},
			{"Payé", detail.Paid.Format(s.config.Currency)},
			{"Reste à payer", detail.Remaining.Format(s.config.Currency)},
		},
	}
	payload, err := s.deps.Renderer.Render(doc)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render invoice")
	}
	return payload, fmt.Sprintf("facture-%s-%d.pdf", detail.IssuedOn, detail.Number), nil
}

// resolveStudent returns the billed student. An enrollment link implies
// its student; a private lesson link needs an explicit attendee.
func (s *InvoiceService) resolveStudent(ctx context.Context, req dto.CreateInvoiceRequest) (string, error) {
	hasEnrollment := req.EnrollmentID != nil && *req.EnrollmentID != ""
	hasLesson := req.PrivateLessonID != nil && *req.PrivateLessonID != ""
	if hasEnrollment == hasLesson {
		return "", appErrors.Clone(appErrors.ErrValidation, "an invoice links exactly one enrollment or private lesson")
	}

	if hasEnrollment {
		enrollment, err := s.deps.Enrollments.FindByID(ctx, *req.EnrollmentID)
		if err != nil {
			return "", repoError(err, "enrollment not found", "failed to load enrollment")
		}
		if req.StudentID != "" && req.StudentID != enrollment.StudentID {
			return "", appErrors.Clone(appErrors.ErrValidation, "enrollment belongs to another student")
		}
		return enrollment.StudentID, nil
	}

	if req.StudentID == "" {
		return "", validationError(errors.New("student_id is required"), "student_id is required for private lesson invoices")
	}
	lesson, err := s.deps.Lessons.FindByID(ctx, *req.PrivateLessonID)
	if err != nil {
		return "", repoError(err, "private lesson not found", "failed to load private lesson")
	}
	for _, id := range lesson.StudentIDs {
		if id == req.StudentID {
			return req.StudentID, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "student does not attend this private lesson")
}

func lineValues(items []models.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.LineItem)
	}
	return out
}

func period(start, end *domain.Date) string {
	switch {
	case start != nil && end != nil:
		return start.String() + " – " + end.String()
	case start != nil:
		return "dès " + start.String()
	case end != nil:
		return "jusqu'au " + end.String()
	}
	return ""
}
