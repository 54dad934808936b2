package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler mounted by Register.
type Handlers struct {
	Auth           *AuthHandler
	Students       *StudentHandler
	Guarantors     *GuarantorHandler
	PlacementTests *PlacementHandler
	Documents      *DocumentHandler
	Teachers       *TeacherHandler
	Courses        *CourseHandler
	Sessions       *SessionHandler
	Enrollments    *EnrollmentHandler
	PrivateLessons *PrivateLessonHandler
	Invoices       *InvoiceHandler
	Payments       *PaymentHandler
	Attendance     *AttendanceHandler
	Dashboard      *DashboardHandler
	Metrics        *MetricsHandler
}

// Register mounts the API under prefix. protect guards every route except
// the auth endpoints and signed document downloads, whose token is checked
// by the document service; loginLimit throttles login attempts.
func Register(r *gin.Engine, prefix string, h Handlers, protect, loginLimit gin.HandlerFunc) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(prefix)

	auth := api.Group("/auth")
	auth.POST("/login", loginLimit, h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/status", h.Auth.Status)

	api.GET("/documents/:id/download", h.Documents.Download)

	secured := api.Group("")
	secured.Use(protect)

	secured.GET("/dashboard", h.Dashboard.Stats)

	students := secured.Group("/students")
	students.GET("", h.Students.List)
	students.GET("/pre-registered", h.Students.PreRegistered)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/enrollments", h.Enrollments.List)
	students.POST("/:id/enrollments", h.Enrollments.Create)
	students.GET("/:id/enrollments/:enrollmentId", h.Enrollments.Get)
	students.PUT("/:id/enrollments/:enrollmentId", h.Enrollments.Update)
	students.DELETE("/:id/enrollments/:enrollmentId", h.Enrollments.Delete)
	students.GET("/:id/guarantor", h.Guarantors.Get)
	students.POST("/:id/guarantor", h.Guarantors.Assign)
	students.DELETE("/:id/guarantor", h.Guarantors.Remove)
	students.GET("/:id/placement-tests", h.PlacementTests.List)
	students.POST("/:id/placement-tests", h.PlacementTests.Create)
	students.DELETE("/:id/placement-tests/:testId", h.PlacementTests.Delete)
	students.GET("/:id/documents", h.Documents.List)
	students.POST("/:id/documents", h.Documents.Upload)
	students.DELETE("/:id/documents/:documentId", h.Documents.Delete)
	students.GET("/:id/private-lessons", h.PrivateLessons.ListByStudent)
	students.GET("/:id/invoices", h.Invoices.ListByStudent)
	students.GET("/:id/payments", h.Payments.ListByStudent)

	teachers := secured.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	courses := secured.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	sessions := secured.Group("/sessions")
	sessions.GET("", h.Sessions.List)
	sessions.POST("", h.Sessions.Create)
	sessions.GET("/:id", h.Sessions.Get)
	sessions.PUT("/:id", h.Sessions.Update)
	sessions.DELETE("/:id", h.Sessions.Delete)
	sessions.GET("/:id/students", h.Sessions.Students)
	sessions.GET("/:id/attendance-sheets", h.Attendance.ListSheets)
	sessions.POST("/:id/attendance-sheets", h.Attendance.CreateSheet)

	lessons := secured.Group("/private-lessons")
	lessons.GET("", h.PrivateLessons.List)
	lessons.POST("", h.PrivateLessons.Create)
	lessons.GET("/:id", h.PrivateLessons.Get)
	lessons.PUT("/:id", h.PrivateLessons.Update)
	lessons.DELETE("/:id", h.PrivateLessons.Delete)

	invoices := secured.Group("/invoices")
	invoices.GET("", h.Invoices.List)
	invoices.POST("", h.Invoices.Create)
	invoices.GET("/:id", h.Invoices.Get)
	invoices.DELETE("/:id", h.Invoices.Delete)
	invoices.GET("/:id/line-items", h.Invoices.LineItems)
	invoices.PATCH("/:id/due-date", h.Invoices.SetDueDate)
	invoices.GET("/:id/pdf", h.Invoices.PDF)
	invoices.GET("/:id/payments", h.Payments.ListByInvoice)
	invoices.POST("/:id/payments", h.Payments.Create)

	payments := secured.Group("/payments")
	payments.GET("", h.Payments.List)
	payments.GET("/:id", h.Payments.Get)
	payments.DELETE("/:id", h.Payments.Delete)

	sheets := secured.Group("/attendance-sheets")
	sheets.GET("/:id", h.Attendance.Get)
	sheets.DELETE("/:id", h.Attendance.Delete)
	sheets.PUT("/:id/records", h.Attendance.UpdateStatuses)
	sheets.GET("/:id/export", h.Attendance.Export)
}
