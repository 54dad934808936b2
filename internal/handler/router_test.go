package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	protect := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer ok" {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
	Register(r, "/api", Handlers{
		Auth:           NewAuthHandler(&fakeAuthService{token: "ok"}, CookieConfig{}),
		Students:       NewStudentHandler(nil),
		Guarantors:     NewGuarantorHandler(nil),
		PlacementTests: NewPlacementHandler(nil),
		Documents:      NewDocumentHandler(&fakeDocumentService{}),
		Teachers:       NewTeacherHandler(nil),
		Courses:        NewCourseHandler(nil),
		Sessions:       NewSessionHandler(nil),
		Enrollments:    NewEnrollmentHandler(&fakeEnrollmentService{}),
		PrivateLessons: NewPrivateLessonHandler(nil),
		Invoices:       NewInvoiceHandler(&fakeInvoiceService{}),
		Payments:       NewPaymentHandler(&fakePaymentService{}),
		Attendance:     NewAttendanceHandler(&fakeAttendanceService{}),
		Dashboard:      NewDashboardHandler(&fakeDashboardSrv{}),
		Metrics:        NewMetricsHandler(nil, nil),
	}, protect, func(c *gin.Context) { c.Next() })
	return r
}

func TestRegisterGuardsApiRoutes(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/invoices", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.Header.Set("Authorization", "Bearer ok")
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLeavesAuthAndHealthOpen(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/status", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc-1/download?token=t", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/s-1/documents", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
