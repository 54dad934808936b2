package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var fes FieldErrors
	require.ErrorAs(t, err, &fes)
	out := make([]string, 0, len(fes))
	for _, fe := range fes {
		out = append(out, fe.Field)
	}
	return out
}

func TestSessionFormCoercesPayload(t *testing.T) {
	backend := newFakeBackend()
	form := NewSessionForm(backend.start(t), nil)

	session, err := form.Submit(context.Background(), SessionInput{
		CourseID: "c-1", StartDate: "2025-09-01", EndDate: "2025-12-19",
		Period: "morning", SessionsPerMonth: "12", Capacity: " 14 ",
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-new", session.ID)
	require.Len(t, backend.createdSessions, 1)
	req := backend.createdSessions[0]
	assert.Equal(t, "2025-09-01", req.StartDate.String())
	assert.Equal(t, domain.PeriodMorning, req.Period)
	assert.Equal(t, 14, req.Capacity)
	assert.Nil(t, req.TeacherID)
}

func TestSessionFormReportsFields(t *testing.T) {
	form := NewSessionForm(nil, nil)

	_, err := form.Payload(SessionInput{StartDate: "01.09.2025", Period: "NIGHT", SessionsPerMonth: "x", Capacity: "10"})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "sessions_per_month")
	assert.Contains(t, fields, "course_id")
	assert.Contains(t, fields, "period")
	assert.NotContains(t, fields, "capacity")
}

func TestPrivateLessonFormAcceptsEndBeforeStart(t *testing.T) {
	form := NewPrivateLessonForm(nil, nil)

	req, err := form.Payload(PrivateLessonInput{
		LessonDate: "2025-04-03", StartTime: "16:00", EndTime: "15:00", Fee: "60",
		Place: "school", TeacherID: "t-1", StudentIDs: []string{"s-1", " "},
	})

	require.NoError(t, err)
	assert.Equal(t, "16:00", req.StartTime.String())
	assert.Equal(t, "15:00", req.EndTime.String())
	assert.Equal(t, "60.00", req.Fee.String())
	assert.Equal(t, models.PlaceSchool, req.Place)
	assert.Equal(t, []string{"s-1"}, req.StudentIDs)
}

func TestPrivateLessonFormRequiresStudents(t *testing.T) {
	form := NewPrivateLessonForm(nil, nil)

	_, err := form.Payload(PrivateLessonInput{
		LessonDate: "2025-04-03", StartTime: "9h", EndTime: "10:00", Fee: "60", Place: "HOME", TeacherID: "t-1",
	})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "student_ids")
}

func TestInvoiceFormScenario(t *testing.T) {
	backend := newFakeBackend()
	form := NewInvoiceForm(backend.start(t), nil)
	enrollment := "enr-1"
	items := []domain.LineItem{
		{Description: "Cours intensif", Amount: domain.MustParseMoney("120.50")},
		{Description: "Matériel", Amount: domain.MustParseMoney("29.50")},
	}

	assert.Equal(t, "150.00", form.Total(items).String())

	_, err := form.Submit(context.Background(), dto.CreateInvoiceRequest{EnrollmentID: &enrollment, LineItems: items})
	require.NoError(t, err)
	assert.Len(t, backend.createdInvoices, 1)
}

func TestInvoiceFormValidation(t *testing.T) {
	backend := newFakeBackend()
	form := NewInvoiceForm(backend.start(t), nil)
	enrollment, lesson := "enr-1", "pl-1"

	_, err := form.Submit(context.Background(), dto.CreateInvoiceRequest{
		EnrollmentID: &enrollment, PrivateLessonID: &lesson,
		LineItems: []domain.LineItem{{Amount: domain.MustParseMoney("-1")}},
	})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "enrollment_id")
	assert.Contains(t, fields, "line_items[0].description")
	assert.Contains(t, fields, "line_items[0]")
	assert.Empty(t, backend.createdInvoices)
}
