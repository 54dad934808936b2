package controller

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/client"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type paymentAPI interface {
	GetInvoice(ctx context.Context, id string) (*models.InvoiceDetail, error)
	ListInvoicePayments(ctx context.Context, invoiceID string) ([]models.Payment, error)
	CreatePayment(ctx context.Context, invoiceID string, req dto.PaymentRequest) (*models.Payment, error)
}

// PaymentInput is what the cashier typed.
type PaymentInput struct {
	InvoiceID string
	Amount    domain.Money
	Channel   domain.PaymentChannel
	Method    *domain.PaymentMethod
	PaidOn    *domain.Date
}

// PaymentResult is an accepted payment and the balance left after it.
type PaymentResult struct {
	Payment   *models.Payment
	Remaining domain.Money
}

// PaymentForm records a payment against an invoice.
type PaymentForm struct {
	api    paymentAPI
	logger *zap.Logger
}

func NewPaymentForm(api paymentAPI, logger *zap.Logger) *PaymentForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentForm{api: api, logger: logger}
}

// Remaining fetches the invoice and its payments and derives the balance.
func (f *PaymentForm) Remaining(ctx context.Context, invoiceID string) (domain.Money, error) {
	total, payments, err := f.balance(ctx, invoiceID)
	if err != nil {
		return domain.Zero, err
	}
	return domain.Remaining(total, payments), nil
}

// Submit validates the amount against a freshly computed remaining balance
// and posts the payment. A *domain.PaymentError is returned untouched when
// the amount is rejected; nothing is posted in that case.
func (f *PaymentForm) Submit(ctx context.Context, in PaymentInput) (*PaymentResult, error) {
	if in.InvoiceID == "" {
		return nil, FieldErrors{{Field: "invoice_id", Message: "required"}}
	}
	if in.Channel == "" {
		return nil, FieldErrors{{Field: "channel", Message: "required"}}
	}

	total, payments, err := f.balance(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	_, remaining, err := domain.ApplyPayment(total, payments, in.Amount)
	if err != nil {
		var perr *domain.PaymentError
		if errors.As(err, &perr) {
			f.logger.Info("payment rejected", zap.String("invoice_id", in.InvoiceID), zap.Error(err))
		}
		return nil, err
	}

	payment, err := f.api.CreatePayment(ctx, in.InvoiceID, dto.PaymentRequest{
		Amount:  in.Amount,
		PaidOn:  in.PaidOn,
		Channel: in.Channel,
		Method:  domain.EffectiveMethod(in.Channel, in.Method),
	})
	if err != nil {
		if perr := f.rejection(ctx, in, remaining, err); perr != nil {
			f.logger.Info("payment rejected by server", zap.String("invoice_id", in.InvoiceID), zap.Error(err))
			return nil, perr
		}
		return nil, failure(f.logger, "payment", err)
	}
	return &PaymentResult{Payment: payment, Remaining: remaining}, nil
}

// rejection turns a server-side refusal into the same *domain.PaymentError
// the local check produces. When another payment landed in between, the
// balance is fetched again so the error carries what is actually left.
func (f *PaymentForm) rejection(ctx context.Context, in PaymentInput, remaining domain.Money, err error) *domain.PaymentError {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	switch apiErr.Code {
	case appErrors.ErrPaymentNonPositive.Code:
		return &domain.PaymentError{Kind: domain.PaymentNonPositive, Amount: in.Amount, Remaining: remaining}
	case appErrors.ErrPaymentExceedsRemaining.Code:
		if current, rerr := f.Remaining(ctx, in.InvoiceID); rerr == nil {
			remaining = current
		}
		return &domain.PaymentError{Kind: domain.PaymentExceedsRemaining, Amount: in.Amount, Remaining: remaining}
	}
	return nil
}

func (f *PaymentForm) balance(ctx context.Context, invoiceID string) (domain.Money, []domain.Money, error) {
	invoice, err := f.api.GetInvoice(ctx, invoiceID)
	if err != nil {
		return domain.Zero, nil, failure(f.logger, "invoice lookup", err)
	}
	payments, err := f.api.ListInvoicePayments(ctx, invoiceID)
	if err != nil {
		return domain.Zero, nil, failure(f.logger, "payment lookup", err)
	}
	items := make([]domain.LineItem, 0, len(invoice.LineItems))
	for _, line := range invoice.LineItems {
		items = append(items, line.LineItem)
	}
	return domain.InvoiceTotal(items), models.Amounts(payments), nil
}
