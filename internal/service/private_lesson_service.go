package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type privateLessonRepository interface {
	List(ctx context.Context, page, size int) ([]models.PrivateLessonDetail, int, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.PrivateLessonDetail, error)
	ListByTeacherOn(ctx context.Context, teacherID string, date domain.Date, excludeID string) ([]models.PrivateLesson, error)
	FindByID(ctx context.Context, id string) (*models.PrivateLessonDetail, error)
	Create(ctx context.Context, lesson *models.PrivateLesson) error
	Update(ctx context.Context, lesson *models.PrivateLesson) error
	Delete(ctx context.Context, id string) error
}

// PrivateLessonService schedules one-off lessons.
type PrivateLessonService struct {
	repo      privateLessonRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

func NewPrivateLessonService(repo privateLessonRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *PrivateLessonService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if stats == nil {
		stats = noopInvalidator{}
	}
	return &PrivateLessonService{repo: repo, stats: stats, validator: validate, logger: logger}
}

func (s *PrivateLessonService) List(ctx context.Context, page, size int) ([]models.PrivateLessonDetail, *models.Pagination, error) {
	lessons, total, err := s.repo.List(ctx, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list private lessons")
	}
	return lessons, models.NewPagination(page, size, total), nil
}

func (s *PrivateLessonService) ListByStudent(ctx context.Context, studentID string) ([]models.PrivateLessonDetail, error) {
	lessons, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list private lessons")
	}
	return lessons, nil
}

func (s *PrivateLessonService) Get(ctx context.Context, id string) (*models.PrivateLessonDetail, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "private lesson not found", "failed to load private lesson")
	}
	return lesson, nil
}

func (s *PrivateLessonService) Create(ctx context.Context, req dto.PrivateLessonRequest) (*models.PrivateLessonDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	lesson := &models.PrivateLesson{}
	applyPrivateLesson(lesson, req)
	if err := s.ensureTeacherFree(ctx, *lesson); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, repoError(err, "private lesson not found", "failed to create private lesson")
	}
	s.stats.InvalidateStats(ctx)
	return s.Get(ctx, lesson.ID)
}

func (s *PrivateLessonService) Update(ctx context.Context, id string, req dto.PrivateLessonRequest) (*models.PrivateLessonDetail, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "private lesson not found", "failed to load private lesson")
	}
	lesson := current.PrivateLesson
	applyPrivateLesson(&lesson, req)
	if err := s.ensureTeacherFree(ctx, lesson); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &lesson); err != nil {
		return nil, repoError(err, "private lesson not found", "failed to update private lesson")
	}
	return s.Get(ctx, id)
}

func (s *PrivateLessonService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "private lesson not found", "failed to delete private lesson")
	}
	s.stats.InvalidateStats(ctx)
	return nil
}

// ensureTeacherFree rejects a lesson overlapping another lesson of the same
// teacher on the same day.
func (s *PrivateLessonService) ensureTeacherFree(ctx context.Context, lesson models.PrivateLesson) error {
	others, err := s.repo.ListByTeacherOn(ctx, lesson.TeacherID, lesson.LessonDate, lesson.ID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check teacher schedule")
	}
	for _, other := range others {
		if lesson.Overlaps(other) {
			s.logger.Debug("private lesson overlap",
				zap.String("teacher_id", lesson.TeacherID), zap.String("conflict_id", other.ID))
			return appErrors.Clone(appErrors.ErrScheduleConflict, "")
		}
	}
	return nil
}

func (s *PrivateLessonService) validate(req dto.PrivateLessonRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid private lesson payload")
	}
	if req.LessonDate.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "lesson_date is required")
	}
	if !req.Fee.IsPositive() {
		return validationError(errors.New("fee must be greater than zero"), "invalid private lesson payload")
	}
	return nil
}

func applyPrivateLesson(lesson *models.PrivateLesson, req dto.PrivateLessonRequest) {
	lesson.LessonDate = req.LessonDate
	lesson.StartTime = req.StartTime
	lesson.EndTime = req.EndTime
	lesson.Fee = req.Fee
	lesson.Place = req.Place
	lesson.TeacherID = req.TeacherID
	lesson.StudentIDs = dedupe(req.StudentIDs)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
