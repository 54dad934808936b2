package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const paymentDetailSelect = `SELECT p.id, p.invoice_id, p.amount, p.paid_on, p.channel, p.method, p.created_at,
        i.number AS invoice_number, s.id AS student_id, s.last_name AS student_last_name, s.first_name AS student_first_name
        FROM payments p
        JOIN invoices i ON i.id = p.invoice_id
        JOIN students s ON s.id = i.student_id`

// PaymentCheck decides whether a payment may be recorded given the invoice
// line amounts and the payments already applied.
type PaymentCheck func(lines []domain.Money, payments []domain.Money) error

// PaymentRepository persists payments.
type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create records payment after check accepts it. The invoice row is locked
// for the duration so concurrent payments see each other's amounts. A
// missing invoice yields sql.ErrNoRows; a check error is returned as is.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment, check PaymentCheck) (err error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	payment.CreatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.GetContext(ctx, &locked, `SELECT id FROM invoices WHERE id = $1 FOR UPDATE`, payment.InvoiceID); err != nil {
		return err
	}
	var lines []domain.Money
	if err = tx.SelectContext(ctx, &lines, `SELECT amount FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`, payment.InvoiceID); err != nil {
		return fmt.Errorf("load invoice lines: %w", err)
	}
	var paid []domain.Money
	if err = tx.SelectContext(ctx, &paid, `SELECT amount FROM payments WHERE invoice_id = $1 ORDER BY created_at`, payment.InvoiceID); err != nil {
		return fmt.Errorf("load invoice payments: %w", err)
	}
	if err = check(lines, paid); err != nil {
		return err
	}

	const query = `INSERT INTO payments (id, invoice_id, amount, paid_on, channel, method, created_at)
        VALUES (:id, :invoice_id, :amount, :paid_on, :channel, :method, :created_at)`
	if _, err = tx.NamedExecContext(ctx, query, payment); err != nil {
		return mapWriteError("create payment", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.PaymentDetail, error) {
	var payment models.PaymentDetail
	if err := r.db.GetContext(ctx, &payment, paymentDetailSelect+" WHERE p.id = $1", id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByInvoice returns an invoice's payments in the order received.
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	const query = `SELECT id, invoice_id, amount, paid_on, channel, method, created_at
        FROM payments WHERE invoice_id = $1 ORDER BY paid_on, created_at`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list invoice payments: %w", err)
	}
	return payments, nil
}

// List returns payments, optionally for one student, latest first.
func (r *PaymentRepository) List(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentDetail, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.InvoiceID != "" {
		conditions = append(conditions, fmt.Sprintf("p.invoice_id = $%d", len(args)+1))
		args = append(args, filter.InvoiceID)
	}
	where := " WHERE " + strings.Join(conditions, " AND ")
	page, size := models.NormalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s%s ORDER BY p.paid_on DESC, p.created_at DESC LIMIT %d OFFSET %d", paymentDetailSelect, where, size, offset(page, size))
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	var total int
	countQuery := "SELECT COUNT(*) FROM payments p JOIN invoices i ON i.id = p.invoice_id" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}
	return payments, total, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return expectAffected(res)
}
