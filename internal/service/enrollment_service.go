package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type enrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	Exists(ctx context.Context, studentID, sessionID, excludeID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type enrollmentSessionLookup interface {
	FindByID(ctx context.Context, id string) (*models.SessionDetail, error)
}

type enrollmentStudentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EnrollmentService registers students into sessions.
type EnrollmentService struct {
	repo      enrollmentRepository
	sessions  enrollmentSessionLookup
	students  enrollmentStudentLookup
	refresher sessionRefresher
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService wires the enrollment service. refresher and stats may
// be nil.
func NewEnrollmentService(repo enrollmentRepository, sessions enrollmentSessionLookup, students enrollmentStudentLookup, refresher sessionRefresher, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if refresher == nil {
		refresher = noopRefresher{}
	}
	if stats == nil {
		stats = noopInvalidator{}
	}
	return &EnrollmentService{
		repo:      repo,
		sessions:  sessions,
		students:  students,
		refresher: refresher,
		stats:     stats,
		validator: validate,
		logger:    logger,
	}
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, repoError(err, "student not found", "failed to load student")
	}
	enrollments, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "enrollment not found", "failed to load enrollment")
	}
	return enrollment, nil
}

// Create enrolls a student. The session must have a free seat and the
// student must not already be enrolled in it. Status is derived from the
// registration date and the session end date.
func (s *EnrollmentService) Create(ctx context.Context, studentID string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, repoError(err, "student not found", "failed to load student")
	}
	session, err := s.admit(ctx, studentID, req.SessionID, "")
	if err != nil {
		return nil, err
	}

	ref := session.Ref()
	enrollment := &models.Enrollment{StudentID: studentID}
	applyEnrollment(enrollment, req)
	enrollment.Status = domain.DeriveEnrollmentStatus(req.RegisteredOn, &ref, domain.EnrollmentActive)
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		}
		return nil, repoError(err, "enrollment not found", "failed to create enrollment")
	}
	s.logger.Info("student enrolled",
		zap.String("student_id", studentID), zap.String("session_id", req.SessionID), zap.String("status", string(enrollment.Status)))

	s.refresher.ScheduleRefresh(req.SessionID)
	s.stats.InvalidateStats(ctx)
	return s.Get(ctx, enrollment.ID)
}

// Update saves the submitted fields. Moving to another session re-checks
// capacity and duplicates. A submitted status is kept as is; an empty one
// is derived, keeping the previous status when the session is unknown.
func (s *EnrollmentService) Update(ctx context.Context, studentID, id string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "enrollment not found", "failed to load enrollment")
	}
	if current.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	previousSession := current.SessionID
	var session *models.SessionDetail
	if req.SessionID != previousSession {
		session, err = s.admit(ctx, studentID, req.SessionID, id)
	} else {
		session, err = s.sessions.FindByID(ctx, req.SessionID)
		if err != nil {
			err = repoError(err, "session not found", "failed to load session")
		}
	}
	if err != nil {
		return nil, err
	}

	enrollment := current.Enrollment
	applyEnrollment(&enrollment, req)
	if req.Status == "" {
		ref := session.Ref()
		enrollment.Status = domain.DeriveEnrollmentStatus(req.RegisteredOn, &ref, current.Status)
	}
	if err := s.repo.Update(ctx, &enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
		}
		return nil, repoError(err, "enrollment not found", "failed to update enrollment")
	}

	s.refresher.ScheduleRefresh(enrollment.SessionID)
	if previousSession != enrollment.SessionID {
		s.refresher.ScheduleRefresh(previousSession)
	}
	s.stats.InvalidateStats(ctx)
	return s.Get(ctx, id)
}

func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoError(err, "enrollment not found", "failed to load enrollment")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "enrollment not found", "failed to delete enrollment")
	}
	s.refresher.ScheduleRefresh(current.SessionID)
	s.stats.InvalidateStats(ctx)
	return nil
}

// admit loads the target session and checks that studentID may join it.
func (s *EnrollmentService) admit(ctx context.Context, studentID, sessionID, excludeID string) (*models.SessionDetail, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "session not found", "failed to load session")
	}
	exists, err := s.repo.Exists(ctx, studentID, sessionID, excludeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	}
	if session.Enrolled >= session.Capacity {
		return nil, appErrors.Clone(appErrors.ErrSessionFull, "")
	}
	return session, nil
}

func (s *EnrollmentService) validate(req dto.EnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid enrollment payload")
	}
	if req.RegisteredOn.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "registered_on is required")
	}
	if req.Fee.IsNegative() {
		return appErrors.Clone(appErrors.ErrValidation, "fee must not be negative")
	}
	if err := domain.ValidateExit(req.RegisteredOn, req.ExitDate); err != nil {
		return validationError(err, err.Error())
	}
	return nil
}

func applyEnrollment(enrollment *models.Enrollment, req dto.EnrollmentRequest) {
	enrollment.SessionID = req.SessionID
	enrollment.RegisteredOn = req.RegisteredOn
	enrollment.Purpose = req.Purpose
	enrollment.Fee = req.Fee
	enrollment.PreRegistration = req.PreRegistration
	enrollment.ExitDate = req.ExitDate
	enrollment.ExitReason = req.ExitReason
	if req.Status != "" {
		enrollment.Status = req.Status
	}
}
