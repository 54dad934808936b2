package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment, check repository.PaymentCheck) error
	FindByID(ctx context.Context, id string) (*models.PaymentDetail, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error)
	Delete(ctx context.Context, id string) error
}

type paymentRecorder interface {
	RecordPayment(channel string, amount float64)
}

// PaymentService records payments against invoices. The server re-derives
// the remaining balance inside the write transaction and is the final
// arbiter of acceptance.
type PaymentService struct {
	repo      paymentRepository
	metrics   paymentRecorder
	stats     statsInvalidator
	today     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

func NewPaymentService(repo paymentRepository, metrics paymentRecorder, stats statsInvalidator, today Clock, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = noopInvalidator{}
	}
	return &PaymentService{
		repo:      repo,
		metrics:   metrics,
		stats:     stats,
		today:     defaultClock(today),
		validator: validate,
		logger:    logger,
	}
}

// Create applies a payment of req.Amount to the invoice. The method is only
// kept for personal payments.
func (s *PaymentService) Create(ctx context.Context, invoiceID string, req dto.PaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid payment payload")
	}
	payment := &models.Payment{
		InvoiceID: invoiceID,
		Amount:    req.Amount,
		Channel:   req.Channel,
		Method:    domain.EffectiveMethod(req.Channel, req.Method),
	}
	if req.PaidOn != nil && !req.PaidOn.IsZero() {
		payment.PaidOn = *req.PaidOn
	} else {
		payment.PaidOn = s.today()
	}

	err := s.repo.Create(ctx, payment, func(lines, payments []domain.Money) error {
		remaining := domain.Remaining(domain.Sum(lines), payments)
		return domain.ValidatePayment(req.Amount, remaining)
	})
	if err != nil {
		var perr *domain.PaymentError
		if errors.As(err, &perr) {
			s.logger.Info("payment rejected",
				zap.String("invoice_id", invoiceID), zap.String("amount", perr.Amount.String()), zap.String("remaining", perr.Remaining.String()))
			return nil, paymentError(perr)
		}
		return nil, repoError(err, "invoice not found", "failed to record payment")
	}

	if s.metrics != nil {
		s.metrics.RecordPayment(string(payment.Channel), payment.Amount.Decimal().InexactFloat64())
	}
	s.stats.InvalidateStats(ctx)
	s.logger.Info("payment recorded", zap.String("invoice_id", invoiceID), zap.String("payment_id", payment.ID), zap.String("amount", payment.Amount.String()))
	return payment, nil
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.PaymentDetail, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "payment not found", "failed to load payment")
	}
	return payment, nil
}

func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	payments, err := s.repo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// List returns payments, optionally narrowed to one student.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, *models.Pagination, error) {
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

func (s *PaymentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "payment not found", "failed to delete payment")
	}
	s.stats.InvalidateStats(ctx)
	return nil
}

func paymentError(perr *domain.PaymentError) error {
	base := appErrors.ErrPaymentExceedsRemaining
	if perr.Kind == domain.PaymentNonPositive {
		base = appErrors.ErrPaymentNonPositive
	}
	return appErrors.Wrap(perr, base.Code, base.Status, base.Message)
}
