package domain

import (
	"errors"
	"fmt"
)

// InvoiceStatus is derived from the remaining balance and never stored.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "PAID"
	InvoiceUnpaid InvoiceStatus = "UNPAID"
)

// LineItem is one itemised charge of an invoice.
type LineItem struct {
	Description string `db:"description" json:"description" validate:"required,max=255"`
	PeriodStart *Date  `db:"period_start" json:"period_start,omitempty"`
	PeriodEnd   *Date  `db:"period_end" json:"period_end,omitempty"`
	Amount      Money  `db:"amount" json:"amount"`
}

var (
	ErrNegativeAmount = errors.New("line item amount must not be negative")
	ErrPeriodOrder    = errors.New("line item period start must not be after its end")
)

// ValidateLineItem checks the amount sign and the period order.
func ValidateLineItem(item LineItem) error {
	if item.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if item.PeriodStart != nil && item.PeriodEnd != nil && item.PeriodStart.After(*item.PeriodEnd) {
		return ErrPeriodOrder
	}
	return nil
}

// InvoiceTotal sums the line item amounts.
func InvoiceTotal(items []LineItem) Money {
	total := Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}

// Remaining is total minus the sum of payments. Over-payment yields a
// negative value; it is rejected before acceptance, not clamped here.
func Remaining(total Money, payments []Money) Money {
	return total.Sub(Sum(payments))
}

func StatusOf(total Money, payments []Money) InvoiceStatus {
	if Remaining(total, payments).IsZero() {
		return InvoicePaid
	}
	return InvoiceUnpaid
}

// Balance is the derived money state of an invoice.
type Balance struct {
	Total     Money         `json:"total"`
	Paid      Money         `json:"paid"`
	Remaining Money         `json:"remaining"`
	Status    InvoiceStatus `json:"status"`
}

func NewBalance(total Money, payments []Money) Balance {
	return Balance{
		Total:     total,
		Paid:      Sum(payments),
		Remaining: Remaining(total, payments),
		Status:    StatusOf(total, payments),
	}
}

// PaymentErrorKind tells why a payment was refused.
type PaymentErrorKind int

const (
	PaymentNonPositive PaymentErrorKind = iota + 1
	PaymentExceedsRemaining
)

var (
	ErrPaymentNonPositive      = errors.New("payment amount must be greater than zero")
	ErrPaymentExceedsRemaining = errors.New("payment amount exceeds the remaining balance")
)

// PaymentError is returned by ValidatePayment. It unwraps to
// ErrPaymentNonPositive or ErrPaymentExceedsRemaining.
type PaymentError struct {
	Kind      PaymentErrorKind
	Amount    Money
	Remaining Money
}

func (e *PaymentError) Error() string {
	switch e.Kind {
	case PaymentNonPositive:
		return fmt.Sprintf("%s (got %s)", ErrPaymentNonPositive, e.Amount)
	default:
		return fmt.Sprintf("%s (got %s, remaining %s)", ErrPaymentExceedsRemaining, e.Amount, e.Remaining)
	}
}

func (e *PaymentError) Unwrap() error {
	if e.Kind == PaymentNonPositive {
		return ErrPaymentNonPositive
	}
	return ErrPaymentExceedsRemaining
}

// ValidatePayment accepts 0 < amount <= remaining.
func ValidatePayment(amount, remaining Money) error {
	if !amount.IsPositive() {
		return &PaymentError{Kind: PaymentNonPositive, Amount: amount, Remaining: remaining}
	}
	if amount.Cmp(remaining) > 0 {
		return &PaymentError{Kind: PaymentExceedsRemaining, Amount: amount, Remaining: remaining}
	}
	return nil
}

// ApplyPayment validates amount against the balance derived from total and
// payments. On success it returns the extended payment set and the new
// remaining balance; on failure the original set is returned untouched.
func ApplyPayment(total Money, payments []Money, amount Money) ([]Money, Money, error) {
	remaining := Remaining(total, payments)
	if err := ValidatePayment(amount, remaining); err != nil {
		return payments, remaining, err
	}
	next := make([]Money, 0, len(payments)+1)
	next = append(next, payments...)
	next = append(next, amount)
	return next, Remaining(total, next), nil
}

// PaymentChannel is who funds a payment.
type PaymentChannel string

const (
	ChannelPersonal PaymentChannel = "PERSONAL"
	ChannelBPA      PaymentChannel = "BPA"
	ChannelCAF      PaymentChannel = "CAF"
	ChannelHospice  PaymentChannel = "HOSPICE"
	ChannelOther    PaymentChannel = "OTHER"
)

// PaymentMethod is how a personal payment was made.
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodCard     PaymentMethod = "CARD"
	MethodPhone    PaymentMethod = "PHONE"
)

// EffectiveMethod drops the method unless the channel is personal.
func EffectiveMethod(channel PaymentChannel, method *PaymentMethod) *PaymentMethod {
	if channel != ChannelPersonal || method == nil || *method == "" {
		return nil
	}
	m := *method
	return &m
}
