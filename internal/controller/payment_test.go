package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

func invoiceWithLines(id string, amounts ...string) *models.InvoiceDetail {
	inv := &models.InvoiceDetail{}
	inv.ID = id
	for i, a := range amounts {
		inv.LineItems = append(inv.LineItems, models.LineItem{
			ID:       id + "-l" + string(rune('0'+i)),
			Position: i + 1,
			LineItem: domain.LineItem{Description: "Cours", Amount: domain.MustParseMoney(a)},
		})
	}
	return inv
}

func TestPaymentFormScenario(t *testing.T) {
	backend := newFakeBackend()
	backend.invoices["inv-1"] = invoiceWithLines("inv-1", "120.50", "29.50")
	form := NewPaymentForm(backend.start(t), nil)
	ctx := context.Background()

	remaining, err := form.Remaining(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "150.00", remaining.String())

	cash := domain.MethodCash
	res, err := form.Submit(ctx, PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("50.00"), Channel: domain.ChannelPersonal, Method: &cash})
	require.NoError(t, err)
	assert.Equal(t, "100.00", res.Remaining.String())
	require.NotNil(t, res.Payment.Method)
	assert.Equal(t, domain.MethodCash, *res.Payment.Method)

	_, err = form.Submit(ctx, PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("150.00"), Channel: domain.ChannelPersonal})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsRemaining)
	var perr *domain.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "100.00", perr.Remaining.String())
	assert.Len(t, backend.paymentBodies, 1)

	remaining, err = form.Remaining(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "100.00", remaining.String())
}

func TestPaymentFormRejectsNonPositiveWithoutPosting(t *testing.T) {
	backend := newFakeBackend()
	backend.invoices["inv-1"] = invoiceWithLines("inv-1", "80.00")
	form := NewPaymentForm(backend.start(t), nil)

	for _, amount := range []string{"0", "-5.00"} {
		_, err := form.Submit(context.Background(), PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney(amount), Channel: domain.ChannelCAF})
		assert.ErrorIs(t, err, domain.ErrPaymentNonPositive, amount)
	}
	assert.Empty(t, backend.paymentBodies)
}

func TestPaymentFormRecomputesFromServerState(t *testing.T) {
	backend := newFakeBackend()
	backend.invoices["inv-1"] = invoiceWithLines("inv-1", "100.00")
	form := NewPaymentForm(backend.start(t), nil)
	ctx := context.Background()

	// Another desk pays 70 behind this form's back.
	backend.payments["inv-1"] = []models.Payment{{ID: "p-0", InvoiceID: "inv-1", Amount: domain.MustParseMoney("70.00")}}

	_, err := form.Submit(ctx, PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("40.00"), Channel: domain.ChannelBPA})
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsRemaining)

	res, err := form.Submit(ctx, PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("30.00"), Channel: domain.ChannelBPA})
	require.NoError(t, err)
	assert.True(t, res.Remaining.IsZero())
}

func TestPaymentFormReportsServerRejection(t *testing.T) {
	backend := newFakeBackend()
	backend.invoices["inv-1"] = invoiceWithLines("inv-1", "100.00")
	form := NewPaymentForm(backend.start(t), nil)
	ctx := context.Background()

	// Another desk books 70 after this form checked the balance but before its post is accepted.
	backend.interleaved = &models.Payment{ID: "p-0", InvoiceID: "inv-1", Amount: domain.MustParseMoney("70.00")}

	_, err := form.Submit(ctx, PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("40.00"), Channel: domain.ChannelCAF})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsRemaining)
	var perr *domain.PaymentError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, domain.PaymentExceedsRemaining, perr.Kind)
	assert.Equal(t, "40.00", perr.Amount.String())
	assert.Equal(t, "30.00", perr.Remaining.String())
	var f *Failure
	assert.False(t, errors.As(err, &f))
	assert.Len(t, backend.payments["inv-1"], 1)
}

func TestPaymentFormDropsMethodForNonPersonalChannels(t *testing.T) {
	backend := newFakeBackend()
	backend.invoices["inv-1"] = invoiceWithLines("inv-1", "100.00")
	form := NewPaymentForm(backend.start(t), nil)

	card := domain.MethodCard
	_, err := form.Submit(context.Background(), PaymentInput{InvoiceID: "inv-1", Amount: domain.MustParseMoney("10.00"), Channel: domain.ChannelHospice, Method: &card})
	require.NoError(t, err)
	require.Len(t, backend.paymentBodies, 1)
	assert.Nil(t, backend.paymentBodies[0].Method)
}

func TestPaymentFormBackendFailureIsGeneric(t *testing.T) {
	backend := newFakeBackend()
	form := NewPaymentForm(backend.start(t), nil)

	_, err := form.Submit(context.Background(), PaymentInput{InvoiceID: "missing", Amount: domain.MustParseMoney("10.00"), Channel: domain.ChannelPersonal})

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "invoice lookup failed, please try again", err.Error())
}
