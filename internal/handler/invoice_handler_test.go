package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type fakeInvoiceService struct {
	lastFilter models.InvoiceFilter
	lastDue    dto.DueDateRequest
	deleteErr  error
}

func (f *fakeInvoiceService) List(_ context.Context, filter models.InvoiceFilter) ([]models.InvoiceView, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.InvoiceView{}, models.NewPagination(filter.Page, filter.PageSize, 0), nil
}

func (f *fakeInvoiceService) Get(_ context.Context, id string) (*models.InvoiceDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "invoice not found")
}

func (f *fakeInvoiceService) LineItems(context.Context, string) ([]models.LineItem, error) {
	return nil, nil
}

func (f *fakeInvoiceService) Create(context.Context, dto.CreateInvoiceRequest) (*models.InvoiceDetail, error) {
	return &models.InvoiceDetail{}, nil
}

func (f *fakeInvoiceService) SetDueDate(_ context.Context, _ string, req dto.DueDateRequest) (*models.InvoiceDetail, error) {
	f.lastDue = req
	return &models.InvoiceDetail{}, nil
}

func (f *fakeInvoiceService) Delete(context.Context, string) error {
	return f.deleteErr
}

func (f *fakeInvoiceService) PDF(_ context.Context, id string) ([]byte, string, error) {
	return []byte("%PDF-1.3"), "facture-3.pdf", nil
}

func TestInvoiceHandlerListFiltersByStatus(t *testing.T) {
	svc := &fakeInvoiceService{}
	h := NewInvoiceHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/invoices?status=unpaid&page=2&limit=5", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.InvoiceUnpaid, svc.lastFilter.Status)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.PageSize)
	assert.EqualValues(t, 2, decodeEnvelope(t, rec).Pagination["page"])
}

func TestInvoiceHandlerListByStudentUsesPath(t *testing.T) {
	svc := &fakeInvoiceService{}
	h := NewInvoiceHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/students/s-1/invoices?status=paid", nil, gin.Param{Key: "id", Value: "s-1"})
	h.ListByStudent(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-1", svc.lastFilter.StudentID)
	assert.Equal(t, domain.InvoicePaid, svc.lastFilter.Status)
}

func TestInvoiceHandlerListRejectsUnknownStatus(t *testing.T) {
	h := NewInvoiceHandler(&fakeInvoiceService{})
	c, rec := newTestContext(http.MethodGet, "/invoices?status=late", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInvoiceHandlerSetDueDateAcceptsNull(t *testing.T) {
	svc := &fakeInvoiceService{lastDue: dto.DueDateRequest{DueDate: &domain.Date{}}}
	h := NewInvoiceHandler(svc)

	c, rec := newTestContext(http.MethodPatch, "/invoices/i-1/due-date", `{"due_date":null}`, gin.Param{Key: "id", Value: "i-1"})
	h.SetDueDate(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastDue.DueDate)
}

func TestInvoiceHandlerPDFAttachment(t *testing.T) {
	h := NewInvoiceHandler(&fakeInvoiceService{})
	c, rec := newTestContext(http.MethodGet, "/invoices/i-1/pdf", nil, gin.Param{Key: "id", Value: "i-1"})

	h.PDF(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "facture-3.pdf")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestInvoiceHandlerGetNotFound(t *testing.T) {
	h := NewInvoiceHandler(&fakeInvoiceService{})
	c, rec := newTestContext(http.MethodGet, "/invoices/missing", nil, gin.Param{Key: "id", Value: "missing"})

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "invoice not found", decodeEnvelope(t, rec).Error["message"])
}
