package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, int, error)
	ListRefs(ctx context.Context) ([]domain.SessionRef, error)
	FindByID(ctx context.Context, id string) (*models.SessionDetail, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
	ListStudents(ctx context.Context, sessionID string) ([]models.SessionStudent, error)
}

// SessionService manages course sessions. Status is derived on creation
// and afterwards maintained by the lifecycle job.
type SessionService struct {
	repo      sessionRepository
	refresher sessionRefresher
	stats     statsInvalidator
	today     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

// SessionServiceOption customises a SessionService.
type SessionServiceOption func(*SessionService)

func WithSessionRefresher(r sessionRefresher) SessionServiceOption {
	return func(s *SessionService) { s.refresher = r }
}

func WithSessionStats(i statsInvalidator) SessionServiceOption {
	return func(s *SessionService) { s.stats = i }
}

func WithSessionClock(c Clock) SessionServiceOption {
	return func(s *SessionService) { s.today = c }
}

func NewSessionService(repo sessionRepository, validate *validator.Validate, logger *zap.Logger, opts ...SessionServiceOption) *SessionService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{repo: repo, refresher: noopRefresher{}, stats: noopInvalidator{}, validator: validate, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.today = defaultClock(s.today)
	return s
}

func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.SessionDetail, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Refs returns every session with its end date.
func (s *SessionService) Refs(ctx context.Context) ([]domain.SessionRef, error) {
	refs, err := s.repo.ListRefs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return refs, nil
}

func (s *SessionService) Get(ctx context.Context, id string) (*models.SessionDetail, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "session not found", "failed to load session")
	}
	return session, nil
}

// Students lists the students enrolled in a session.
func (s *SessionService) Students(ctx context.Context, id string) ([]models.SessionStudent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	students, err := s.repo.ListStudents(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session students")
	}
	return students, nil
}

func (s *SessionService) Create(ctx context.Context, req dto.SessionRequest) (*models.SessionDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	session := &models.Session{}
	applySession(session, req)
	session.Status = domain.DeriveSessionStatus(session.StartDate, session.Capacity, 0, s.today())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, repoError(err, "session not found", "failed to create session")
	}
	s.logger.Info("session created", zap.String("session_id", session.ID), zap.String("status", string(session.Status)))
	s.afterWrite(ctx, session.ID)
	return s.Get(ctx, session.ID)
}

func (s *SessionService) Update(ctx context.Context, id string, req dto.SessionRequest) (*models.SessionDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "session not found", "failed to load session")
	}
	session := current.Session
	applySession(&session, req)
	if err := s.repo.Update(ctx, &session); err != nil {
		return nil, repoError(err, "session not found", "failed to update session")
	}
	s.afterWrite(ctx, id)
	return s.Get(ctx, id)
}

// Delete removes a session with its enrollments and attendance sheets.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "session not found", "failed to delete session")
	}
	s.stats.InvalidateStats(ctx)
	return nil
}

func (s *SessionService) afterWrite(ctx context.Context, id string) {
	s.refresher.ScheduleRefresh(id)
	s.stats.InvalidateStats(ctx)
}

func (s *SessionService) validate(req dto.SessionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid session payload")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if err := domain.ValidateSessionDates(req.StartDate, req.EndDate); err != nil {
		return validationError(err, err.Error())
	}
	return nil
}

func applySession(session *models.Session, req dto.SessionRequest) {
	session.CourseID = req.CourseID
	session.TeacherID = req.TeacherID
	session.StartDate = req.StartDate
	session.EndDate = req.EndDate
	session.Period = req.Period
	session.SessionsPerMonth = req.SessionsPerMonth
	session.Capacity = req.Capacity
}
