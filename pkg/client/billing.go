package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

// GetInvoice fetches an invoice with its line items and payments.
func (c *Client) GetInvoice(ctx context.Context, id string) (*models.InvoiceDetail, error) {
	var invoice models.InvoiceDetail
	if _, err := c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(id), nil, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListInvoices lists invoices; status is "", "paid" or "unpaid".
func (c *Client) ListInvoices(ctx context.Context, status string, page, limit int) ([]models.InvoiceView, *models.Pagination, error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	var invoices []models.InvoiceView
	pagination, err := c.do(ctx, http.MethodGet, "/invoices", q, nil, &invoices)
	if err != nil {
		return nil, nil, err
	}
	return invoices, pagination, nil
}

func (c *Client) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest) (*models.InvoiceDetail, error) {
	var invoice models.InvoiceDetail
	if _, err := c.do(ctx, http.MethodPost, "/invoices", nil, req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// InvoicePDF downloads the rendered invoice.
func (c *Client) InvoicePDF(ctx context.Context, id string) ([]byte, error) {
	return c.download(ctx, "/invoices/"+url.PathEscape(id)+"/pdf")
}

// ListInvoicePayments lists the payments recorded against an invoice.
func (c *Client) ListInvoicePayments(ctx context.Context, invoiceID string) ([]models.Payment, error) {
	var payments []models.Payment
	if _, err := c.do(ctx, http.MethodGet, "/invoices/"+url.PathEscape(invoiceID)+"/payments", nil, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *Client) CreatePayment(ctx context.Context, invoiceID string, req dto.PaymentRequest) (*models.Payment, error) {
	var payment models.Payment
	if _, err := c.do(ctx, http.MethodPost, "/invoices/"+url.PathEscape(invoiceID)+"/payments", nil, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
