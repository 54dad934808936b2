package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(amounts ...string) []LineItem {
	out := make([]LineItem, 0, len(amounts))
	for _, a := range amounts {
		out = append(out, LineItem{Description: "item", Amount: MustParseMoney(a)})
	}
	return out
}

func TestInvoiceTotalScenario(t *testing.T) {
	total := InvoiceTotal(items("120.50", "29.50"))
	assert.Equal(t, "150.00", total.String())
}

func TestInvoiceTotalIsOrderIndependent(t *testing.T) {
	amounts := []string{"0.10", "0.20", "19.99", "100", "3.33", "0.01"}
	forward := InvoiceTotal(items(amounts...))

	reversed := make([]string, len(amounts))
	for i, a := range amounts {
		reversed[len(amounts)-1-i] = a
	}
	assert.True(t, forward.Equal(InvoiceTotal(items(reversed...))))
	assert.Equal(t, "123.63", forward.String())
	assert.True(t, InvoiceTotal(nil).IsZero())
}

func TestPaymentScenario(t *testing.T) {
	total := InvoiceTotal(items("120.50", "29.50"))
	assert.Equal(t, "150.00", Remaining(total, nil).String())

	payments, remaining, err := ApplyPayment(total, nil, MustParseMoney("50.00"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", remaining.String())
	assert.Len(t, payments, 1)

	after, remaining, err := ApplyPayment(total, payments, MustParseMoney("150.00"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPaymentExceedsRemaining))
	assert.Equal(t, payments, after)
	assert.Equal(t, "100.00", remaining.String())

	var perr *PaymentError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, PaymentExceedsRemaining, perr.Kind)
}

func TestValidatePaymentBounds(t *testing.T) {
	remaining := MustParseMoney("100.00")

	for _, amount := range []string{"0", "-0.01", "-50"} {
		err := ValidatePayment(MustParseMoney(amount), remaining)
		assert.ErrorIs(t, err, ErrPaymentNonPositive, amount)
	}
	assert.ErrorIs(t, ValidatePayment(MustParseMoney("100.01"), remaining), ErrPaymentExceedsRemaining)
	assert.NoError(t, ValidatePayment(MustParseMoney("0.01"), remaining))
	assert.NoError(t, ValidatePayment(MustParseMoney("100.00"), remaining))
}

func TestRemainingIsMonotonicAndReachesPaid(t *testing.T) {
	total := MustParseMoney("99.99")
	var payments []Money
	previous := Remaining(total, payments)

	for _, amount := range []string{"33.33", "33.33", "33.33"} {
		var (
			remaining Money
			err       error
		)
		payments, remaining, err = ApplyPayment(total, payments, MustParseMoney(amount))
		require.NoError(t, err)
		assert.Equal(t, previous.Sub(MustParseMoney(amount)).String(), remaining.String())
		assert.True(t, remaining.Cmp(previous) < 0)
		previous = remaining
	}

	assert.True(t, previous.IsZero())
	assert.Equal(t, InvoicePaid, StatusOf(total, payments))
	assert.Equal(t, InvoiceUnpaid, StatusOf(total, payments[:2]))

	balance := NewBalance(total, payments[:1])
	assert.Equal(t, "33.33", balance.Paid.String())
	assert.Equal(t, "66.66", balance.Remaining.String())
	assert.Equal(t, InvoiceUnpaid, balance.Status)
}

func TestValidateLineItem(t *testing.T) {
	start := MustParseDate("2025-02-01")
	end := MustParseDate("2025-02-28")

	assert.NoError(t, ValidateLineItem(LineItem{Amount: Zero}))
	assert.NoError(t, ValidateLineItem(LineItem{Amount: MustParseMoney("10"), PeriodStart: &start, PeriodEnd: &end}))
	assert.NoError(t, ValidateLineItem(LineItem{Amount: MustParseMoney("10"), PeriodStart: &start}))
	assert.ErrorIs(t, ValidateLineItem(LineItem{Amount: MustParseMoney("-1")}), ErrNegativeAmount)
	assert.ErrorIs(t, ValidateLineItem(LineItem{Amount: MustParseMoney("10"), PeriodStart: &end, PeriodEnd: &start}), ErrPeriodOrder)
}

func TestEffectiveMethod(t *testing.T) {
	card := MethodCard

	got := EffectiveMethod(ChannelPersonal, &card)
	require.NotNil(t, got)
	assert.Equal(t, MethodCard, *got)

	assert.Nil(t, EffectiveMethod(ChannelCAF, &card))
	assert.Nil(t, EffectiveMethod(ChannelPersonal, nil))
}
