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

const invoiceSummaryFrom = `FROM invoices i
        JOIN students s ON s.id = i.student_id
        LEFT JOIN (SELECT invoice_id, SUM(amount) AS total FROM invoice_line_items GROUP BY invoice_id) li ON li.invoice_id = i.id
        LEFT JOIN (SELECT invoice_id, SUM(amount) AS paid FROM payments GROUP BY invoice_id) p ON p.invoice_id = i.id`

const invoiceSummaryColumns = `i.id, i.number, i.student_id, i.issued_on, i.due_date, i.enrollment_id, i.private_lesson_id, i.created_at, i.updated_at,
        s.last_name AS student_last_name, s.first_name AS student_first_name,
        COALESCE(li.total, 0) AS total, COALESCE(p.paid, 0) AS paid`

// InvoiceRepository persists invoices and their line items.
type InvoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// List returns invoice summaries filtered by student and paid state.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.InvoiceSummary, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	switch filter.Status {
	case domain.InvoicePaid:
		conditions = append(conditions, "COALESCE(li.total, 0) - COALESCE(p.paid, 0) = 0")
	case domain.InvoiceUnpaid:
		conditions = append(conditions, "COALESCE(li.total, 0) - COALESCE(p.paid, 0) <> 0")
	}
	where := " WHERE " + strings.Join(conditions, " AND ")
	page, size := models.NormalizePage(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s%s ORDER BY i.issued_on DESC, i.number DESC LIMIT %d OFFSET %d",
		invoiceSummaryColumns, invoiceSummaryFrom, where, size, offset(page, size))
	var invoices []models.InvoiceSummary
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+invoiceSummaryFrom+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	return invoices, total, nil
}

// FindByID returns one invoice summary.
func (r *InvoiceRepository) FindByID(ctx context.Context, id string) (*models.InvoiceSummary, error) {
	var invoice models.InvoiceSummary
	query := "SELECT " + invoiceSummaryColumns + " " + invoiceSummaryFrom + " WHERE i.id = $1"
	if err := r.db.GetContext(ctx, &invoice, query, id); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// LineItems returns the lines of an invoice in entry order.
func (r *InvoiceRepository) LineItems(ctx context.Context, invoiceID string) ([]models.LineItem, error) {
	const query = `SELECT id, invoice_id, position, description, period_start, period_end, amount
        FROM invoice_line_items WHERE invoice_id = $1 ORDER BY position`
	var items []models.LineItem
	if err := r.db.SelectContext(ctx, &items, query, invoiceID); err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	return items, nil
}

// Create stores the invoice and its lines in one transaction. The invoice
// number is the student's next sequence value; the student row is locked so
// concurrent creations cannot pick the same number.
func (r *InvoiceRepository) Create(ctx context.Context, invoice *models.Invoice, lines []domain.LineItem) (items []models.LineItem, err error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin invoice transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.GetContext(ctx, &locked, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, invoice.StudentID); err != nil {
		return nil, err
	}
	if err = tx.GetContext(ctx, &invoice.Number, `SELECT COALESCE(MAX(number), 0) + 1 FROM invoices WHERE student_id = $1`, invoice.StudentID); err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	const insertInvoice = `INSERT INTO invoices (id, number, student_id, issued_on, due_date, enrollment_id, private_lesson_id, created_at, updated_at)
        VALUES (:id, :number, :student_id, :issued_on, :due_date, :enrollment_id, :private_lesson_id, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, insertInvoice, invoice); err != nil {
		return nil, mapWriteError("create invoice", err)
	}

	const insertLine = `INSERT INTO invoice_line_items (id, invoice_id, position, description, period_start, period_end, amount)
        VALUES (:id, :invoice_id, :position, :description, :period_start, :period_end, :amount)`
	items = make([]models.LineItem, 0, len(lines))
	for i, line := range lines {
		item := models.LineItem{ID: uuid.NewString(), InvoiceID: invoice.ID, Position: i + 1, LineItem: line}
		if _, err = tx.NamedExecContext(ctx, insertLine, item); err != nil {
			return nil, mapWriteError("create line item", err)
		}
		items = append(items, item)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit invoice: %w", err)
	}
	return items, nil
}

// SetDueDate sets or clears the due date.
func (r *InvoiceRepository) SetDueDate(ctx context.Context, id string, due *domain.Date) error {
	res, err := r.db.ExecContext(ctx, `UPDATE invoices SET due_date = $1, updated_at = $2 WHERE id = $3`, due, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set invoice due date: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an invoice and renumbers the student's remaining invoices
// so their numbers stay contiguous from 1.
func (r *InvoiceRepository) Delete(ctx context.Context, id string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin invoice transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var studentID string
	if err = tx.GetContext(ctx, &studentID, `DELETE FROM invoices WHERE id = $1 RETURNING student_id`, id); err != nil {
		return err
	}
	const renumber = `UPDATE invoices i SET number = r.rn
        FROM (SELECT id, ROW_NUMBER() OVER (ORDER BY number, created_at) AS rn FROM invoices WHERE student_id = $1) r
        WHERE i.id = r.id AND i.number <> r.rn`
	if _, err = tx.ExecContext(ctx, renumber, studentID); err != nil {
		return fmt.Errorf("renumber invoices: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit invoice delete: %w", err)
	}
	return nil
}

// CountUnpaid counts invoices with a non-zero remaining balance.
func (r *InvoiceRepository) CountUnpaid(ctx context.Context) (int, error) {
	var count int
	query := "SELECT COUNT(*) " + invoiceSummaryFrom + " WHERE COALESCE(li.total, 0) - COALESCE(p.paid, 0) <> 0"
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count unpaid invoices: %w", err)
	}
	return count, nil
}
