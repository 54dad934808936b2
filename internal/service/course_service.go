package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CourseService manages the course catalogue.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	course := &models.Course{}
	applyCourse(course, req)
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, repoError(err, "course not found", "failed to create course")
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id string, req dto.CourseRequest) (*models.Course, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "course not found", "failed to load course")
	}
	applyCourse(course, req)
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, repoError(err, "course not found", "failed to update course")
	}
	return course, nil
}

// Delete removes a course; courses with sessions cannot be deleted.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "course not found", "failed to delete course")
	}
	return nil
}

func (s *CourseService) validate(req dto.CourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid course payload")
	}
	if !req.Fee.IsPositive() {
		return validationError(errors.New("fee must be greater than zero"), "invalid course payload")
	}
	return nil
}

func applyCourse(course *models.Course, req dto.CourseRequest) {
	course.Name = req.Name
	course.Type = req.Type
	course.Level = req.Level
	course.HoursPerWeek = req.HoursPerWeek
	course.DurationWeeks = req.DurationWeeks
	course.Fee = req.Fee
}
