package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Invoice is a billable document; its money state is always derived.
type Invoice struct {
	ID              string       `db:"id" json:"id"`
	Number          int          `db:"number" json:"number"`
	StudentID       string       `db:"student_id" json:"student_id"`
	IssuedOn        domain.Date  `db:"issued_on" json:"issued_on"`
	DueDate         *domain.Date `db:"due_date" json:"due_date,omitempty"`
	EnrollmentID    *string      `db:"enrollment_id" json:"enrollment_id,omitempty"`
	PrivateLessonID *string      `db:"private_lesson_id" json:"private_lesson_id,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// InvoiceSummary is an invoice row with its totals computed in SQL.
type InvoiceSummary struct {
	Invoice
	StudentLastName  string       `db:"student_last_name" json:"student_last_name"`
	StudentFirstName string       `db:"student_first_name" json:"student_first_name"`
	Total            domain.Money `db:"total" json:"total"`
	Paid             domain.Money `db:"paid" json:"paid"`
}

// Balance derives remaining and status from the summary totals.
func (s InvoiceSummary) Balance() domain.Balance {
	return domain.NewBalance(s.Total, []domain.Money{s.Paid})
}

// InvoiceView is the JSON shape of an invoice with its derived balance.
type InvoiceView struct {
	InvoiceSummary
	Remaining domain.Money         `json:"remaining"`
	Status    domain.InvoiceStatus `json:"status"`
}

// View attaches the derived balance.
func (s InvoiceSummary) View() InvoiceView {
	b := s.Balance()
	return InvoiceView{InvoiceSummary: s, Remaining: b.Remaining, Status: b.Status}
}

// InvoiceDetail is an invoice with its line items, payments and billing address.
type InvoiceDetail struct {
	InvoiceView
	Address   StudentAddress `json:"address"`
	LineItems []LineItem     `json:"line_items"`
	Payments  []Payment      `json:"payments"`
}

// StudentAddress is the postal address printed on an invoice. The billing
// address overrides the home address when set.
type StudentAddress struct {
	Street         *string `db:"street" json:"street,omitempty"`
	StreetNumber   *string `db:"street_number" json:"street_number,omitempty"`
	Postcode       *string `db:"postcode" json:"postcode,omitempty"`
	Locality       *string `db:"locality" json:"locality,omitempty"`
	BillingAddress *string `db:"billing_address" json:"billing_address,omitempty"`
}

// Lines renders the address as printable lines.
func (a StudentAddress) Lines() []string {
	if a.BillingAddress != nil && *a.BillingAddress != "" {
		return []string{*a.BillingAddress}
	}
	var lines []string
	street := join(a.Street, a.StreetNumber)
	if street != "" {
		lines = append(lines, street)
	}
	if city := join(a.Postcode, a.Locality); city != "" {
		lines = append(lines, city)
	}
	return lines
}

func join(a, b *string) string {
	out := ""
	if a != nil {
		out = *a
	}
	if b != nil && *b != "" {
		if out != "" {
			out += " "
		}
		out += *b
	}
	return out
}

// LineItem is a persisted invoice line.
type LineItem struct {
	ID        string `db:"id" json:"id"`
	InvoiceID string `db:"invoice_id" json:"invoice_id"`
	Position  int    `db:"position" json:"position"`
	domain.LineItem
}

// InvoiceFilter selects invoices for listing.
type InvoiceFilter struct {
	StudentID string
	Status    domain.InvoiceStatus
	Page      int
	PageSize  int
}
