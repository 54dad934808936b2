package controller

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

type sessionAPI interface {
	CreateSession(ctx context.Context, req dto.SessionRequest) (*models.SessionDetail, error)
}

type privateLessonAPI interface {
	CreatePrivateLesson(ctx context.Context, req dto.PrivateLessonRequest) (*models.PrivateLessonDetail, error)
}

// SessionInput is the raw text of the session form.
type SessionInput struct {
	CourseID         string
	TeacherID        string
	StartDate        string
	EndDate          string
	Period           string
	SessionsPerMonth string
	Capacity         string
}

// PrivateLessonInput is the raw text of the private lesson form.
type PrivateLessonInput struct {
	LessonDate string
	StartTime  string
	EndTime    string
	Fee        string
	Place      string
	TeacherID  string
	StudentIDs []string
}

// SessionForm coerces the session form into its payload and posts it.
type SessionForm struct {
	api      sessionAPI
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSessionForm(api sessionAPI, logger *zap.Logger) *SessionForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionForm{api: api, validate: newFormValidator(), logger: logger}
}

// Payload converts and checks the required fields. Start and end order is
// not checked here.
func (f *SessionForm) Payload(in SessionInput) (dto.SessionRequest, error) {
	var c coercer
	req := dto.SessionRequest{
		CourseID:         strings.TrimSpace(in.CourseID),
		StartDate:        c.date("start_date", in.StartDate),
		EndDate:          c.date("end_date", in.EndDate),
		Period:           domain.Period(strings.ToUpper(strings.TrimSpace(in.Period))),
		SessionsPerMonth: c.integer("sessions_per_month", in.SessionsPerMonth),
		Capacity:         c.integer("capacity", in.Capacity),
	}
	if teacher := strings.TrimSpace(in.TeacherID); teacher != "" {
		req.TeacherID = &teacher
	}
	return req, c.finish(f.validate.Struct(req))
}

func (f *SessionForm) Submit(ctx context.Context, in SessionInput) (*models.SessionDetail, error) {
	req, err := f.Payload(in)
	if err != nil {
		return nil, err
	}
	session, err := f.api.CreateSession(ctx, req)
	if err != nil {
		return nil, failure(f.logger, "session creation", err)
	}
	return session, nil
}

// PrivateLessonForm coerces the private lesson form into its payload.
type PrivateLessonForm struct {
	api      privateLessonAPI
	validate *validator.Validate
	logger   *zap.Logger
}

func NewPrivateLessonForm(api privateLessonAPI, logger *zap.Logger) *PrivateLessonForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrivateLessonForm{api: api, validate: newFormValidator(), logger: logger}
}

// Payload converts and checks the required fields. An end time before the
// start time is accepted.
func (f *PrivateLessonForm) Payload(in PrivateLessonInput) (dto.PrivateLessonRequest, error) {
	var c coercer
	req := dto.PrivateLessonRequest{
		LessonDate: c.date("lesson_date", in.LessonDate),
		StartTime:  c.timeOfDay("start_time", in.StartTime),
		EndTime:    c.timeOfDay("end_time", in.EndTime),
		Fee:        c.money("fee", in.Fee),
		Place:      models.LessonPlace(strings.ToUpper(strings.TrimSpace(in.Place))),
		TeacherID:  strings.TrimSpace(in.TeacherID),
	}
	for _, id := range in.StudentIDs {
		if id = strings.TrimSpace(id); id != "" {
			req.StudentIDs = append(req.StudentIDs, id)
		}
	}
	return req, c.finish(f.validate.Struct(req))
}

func (f *PrivateLessonForm) Submit(ctx context.Context, in PrivateLessonInput) (*models.PrivateLessonDetail, error) {
	req, err := f.Payload(in)
	if err != nil {
		return nil, err
	}
	lesson, err := f.api.CreatePrivateLesson(ctx, req)
	if err != nil {
		return nil, failure(f.logger, "private lesson creation", err)
	}
	return lesson, nil
}

// coercer converts form text and remembers every field it could not read.
type coercer struct {
	errs FieldErrors
}

func (c *coercer) fail(field, message string) {
	c.errs = append(c.errs, FieldError{Field: field, Message: message})
}

func (c *coercer) date(field, raw string) domain.Date {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.fail(field, "required")
		return domain.Date{}
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		c.fail(field, "expected yyyy-MM-dd")
	}
	return d
}

func (c *coercer) timeOfDay(field, raw string) models.TimeOfDay {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.fail(field, "required")
		return models.TimeOfDay{}
	}
	t, err := models.ParseTimeOfDay(raw)
	if err != nil {
		c.fail(field, "expected HH:MM")
	}
	return t
}

func (c *coercer) integer(field, raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.fail(field, "required")
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.fail(field, "expected a whole number")
	}
	return n
}

func (c *coercer) money(field, raw string) domain.Money {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		c.fail(field, "required")
		return domain.Zero
	}
	m, err := domain.ParseMoney(raw)
	if err != nil {
		c.fail(field, "expected an amount")
	}
	return m
}

// finish merges coercion problems with struct validation. Fields that
// already failed coercion are not reported twice.
func (c *coercer) finish(verr error) error {
	if verr != nil {
		seen := make(map[string]bool, len(c.errs))
		for _, fe := range c.errs {
			seen[fe.Field] = true
		}
		if fes, ok := fieldErrors(verr).(FieldErrors); ok {
			for _, fe := range fes {
				if !seen[fe.Field] {
					c.errs = append(c.errs, fe)
				}
			}
		} else {
			return verr
		}
	}
	if len(c.errs) > 0 {
		return c.errs
	}
	return nil
}
