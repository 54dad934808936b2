package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/client"
)

// fakeBackend is an in-memory stand-in for the REST API.
type fakeBackend struct {
	mu sync.Mutex

	password      string
	invoices      map[string]*models.InvoiceDetail
	payments      map[string][]models.Payment
	paymentBodies []dto.PaymentRequest
	// interleaved is booked on the invoice just before the next posted payment is checked.
	interleaved *models.Payment
	sessions      []models.SessionDetail
	sessionsDown  bool
	enrollments   map[string]*models.EnrollmentDetail
	enrollmentPut []dto.EnrollmentRequest
	sheets        map[string]*models.AttendanceSheetDetail
	savedUpdates  [][]domain.StatusUpdate
	// reconcile runs on a sheet after a bulk save, before it is served again.
	reconcile       func(*models.AttendanceSheetDetail)
	createdSessions []dto.SessionRequest
	createdInvoices []dto.CreateInvoiceRequest
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		password:    "secret",
		invoices:    map[string]*models.InvoiceDetail{},
		payments:    map[string][]models.Payment{},
		enrollments: map[string]*models.EnrollmentDetail{},
		sheets:      map[string]*models.AttendanceSheetDetail{},
	}
}

func (b *fakeBackend) start(t *testing.T) *client.Client {
	t.Helper()
	srv := httptest.NewServer(b.routes())
	t.Cleanup(srv.Close)
	c, err := client.New(client.Config{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": map[string]interface{}{"code": code, "message": code, "status": status}})
}

func (b *fakeBackend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/auth/status", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("ecole_session"); err != nil || c.Value != "tok" {
			writeErr(w, http.StatusUnauthorized, "UNAUTHORIZED")
			return
		}
		writeJSON(w, http.StatusOK, dto.AuthStatus{Authenticated: true})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != b.password {
			writeErr(w, http.StatusUnauthorized, "INVALID_CREDENTIALS")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ecole_session", Value: "tok", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, dto.AuthStatus{Authenticated: true})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "ecole_session", Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET /api/invoices/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		inv, ok := b.invoices[r.PathValue("id")]
		if !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		writeJSON(w, http.StatusOK, inv)
	})
	mux.HandleFunc("GET /api/invoices/{id}/payments", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.payments[r.PathValue("id")])
	})
	mux.HandleFunc("POST /api/invoices/{id}/payments", func(w http.ResponseWriter, r *http.Request) {
		var req dto.PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id := r.PathValue("id")
		b.paymentBodies = append(b.paymentBodies, req)
		if b.interleaved != nil {
			b.payments[id] = append(b.payments[id], *b.interleaved)
			b.interleaved = nil
		}
		if inv, ok := b.invoices[id]; ok {
			items := make([]domain.LineItem, 0, len(inv.LineItems))
			for _, line := range inv.LineItems {
				items = append(items, line.LineItem)
			}
			if _, _, err := domain.ApplyPayment(domain.InvoiceTotal(items), models.Amounts(b.payments[id]), req.Amount); err != nil {
				code := "PAYMENT_EXCEEDS_REMAINING"
				if errors.Is(err, domain.ErrPaymentNonPositive) {
					code = "PAYMENT_NON_POSITIVE"
				}
				writeErr(w, http.StatusUnprocessableEntity, code)
				return
			}
		}
		p := models.Payment{ID: "p-" + id, InvoiceID: id, Amount: req.Amount, Channel: req.Channel, Method: req.Method}
		b.payments[id] = append(b.payments[id], p)
		writeJSON(w, http.StatusCreated, p)
	})
	mux.HandleFunc("POST /api/invoices", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CreateInvoiceRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.createdInvoices = append(b.createdInvoices, req)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, models.InvoiceDetail{})
	})

	mux.HandleFunc("GET /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		if b.sessionsDown {
			writeErr(w, http.StatusInternalServerError, "INTERNAL_ERROR")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"data":       b.sessions,
			"pagination": models.Pagination{Page: 1, PageSize: 100, TotalCount: len(b.sessions)},
		})
	})
	mux.HandleFunc("POST /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		var req dto.SessionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		b.createdSessions = append(b.createdSessions, req)
		b.mu.Unlock()
		writeJSON(w, http.StatusCreated, models.SessionDetail{Session: models.Session{ID: "sess-new", CourseID: req.CourseID}})
	})

	mux.HandleFunc("GET /api/students/{sid}/enrollments/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		e, ok := b.enrollments[r.PathValue("id")]
		if !ok || e.StudentID != r.PathValue("sid") {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		writeJSON(w, http.StatusOK, e)
	})
	mux.HandleFunc("PUT /api/students/{sid}/enrollments/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req dto.EnrollmentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.enrollmentPut = append(b.enrollmentPut, req)
		e := b.enrollments[r.PathValue("id")]
		e.SessionID = req.SessionID
		e.RegisteredOn = req.RegisteredOn
		e.Status = req.Status
		writeJSON(w, http.StatusOK, e)
	})

	mux.HandleFunc("GET /api/attendance-sheets/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		sheet, ok := b.sheets[r.PathValue("id")]
		if !ok {
			writeErr(w, http.StatusNotFound, "NOT_FOUND")
			return
		}
		writeJSON(w, http.StatusOK, sheet)
	})
	mux.HandleFunc("PUT /api/attendance-sheets/{id}/records", func(w http.ResponseWriter, r *http.Request) {
		var updates []domain.StatusUpdate
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			writeErr(w, http.StatusBadRequest, "VALIDATION_ERROR")
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		sheet := b.sheets[r.PathValue("id")]
		status := make(map[string]domain.AttendanceStatus, len(updates))
		for _, u := range updates {
			status[u.ID] = u.Status
		}
		for i := range sheet.Records {
			if s, ok := status[sheet.Records[i].ID]; ok {
				sheet.Records[i].Status = s
			}
		}
		b.savedUpdates = append(b.savedUpdates, updates)
		if b.reconcile != nil {
			b.reconcile(sheet)
		}
		writeJSON(w, http.StatusOK, sheet)
	})

	return mux
}
