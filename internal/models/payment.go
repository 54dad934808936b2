package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Payment is a monetary application against an invoice.
type Payment struct {
	ID        string                `db:"id" json:"id"`
	InvoiceID string                `db:"invoice_id" json:"invoice_id"`
	Amount    domain.Money          `db:"amount" json:"amount"`
	PaidOn    domain.Date           `db:"paid_on" json:"paid_on"`
	Channel   domain.PaymentChannel `db:"channel" json:"channel"`
	Method    *domain.PaymentMethod `db:"method" json:"method,omitempty"`
	CreatedAt time.Time             `db:"created_at" json:"created_at"`
}

// PaymentDetail adds invoice and student references for listings.
type PaymentDetail struct {
	Payment
	InvoiceNumber    int    `db:"invoice_number" json:"invoice_number"`
	StudentID        string `db:"student_id" json:"student_id"`
	StudentLastName  string `db:"student_last_name" json:"student_last_name"`
	StudentFirstName string `db:"student_first_name" json:"student_first_name"`
}

// PaymentFilter selects payments for listing.
type PaymentFilter struct {
	StudentID string
	InvoiceID string
	Page      int
	PageSize  int
}

// Amounts extracts the payment amounts.
func Amounts(payments []Payment) []domain.Money {
	out := make([]domain.Money, 0, len(payments))
	for _, p := range payments {
		out = append(out, p.Amount)
	}
	return out
}
