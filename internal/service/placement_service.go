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

type placementRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.PlacementTest, error)
	Create(ctx context.Context, test *models.PlacementTest) error
	Delete(ctx context.Context, studentID, id string) error
}

// PlacementService records the entry tests a student sat.
type PlacementService struct {
	repo      placementRepository
	students  studentLookup
	clock     Clock
	validator *validator.Validate
	logger    *zap.Logger
}

func NewPlacementService(repo placementRepository, students studentLookup, clock Clock, validate *validator.Validate, logger *zap.Logger) *PlacementService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacementService{repo: repo, students: students, clock: defaultClock(clock), validator: validate, logger: logger}
}

// List returns the student's tests, latest first.
func (s *PlacementService) List(ctx context.Context, studentID string) ([]models.PlacementTest, error) {
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}
	tests, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list placement tests")
	}
	return tests, nil
}

func (s *PlacementService) Create(ctx context.Context, studentID string, req dto.PlacementTestRequest) (*models.PlacementTest, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}
	test := &models.PlacementTest{
		StudentID: studentID,
		TestDate:  req.TestDate,
		Level:     req.Level,
		Score:     req.Score,
	}
	if err := s.repo.Create(ctx, test); err != nil {
		return nil, repoError(err, "student not found", "failed to record placement test")
	}
	return test, nil
}

func (s *PlacementService) Delete(ctx context.Context, studentID, id string) error {
	if err := s.repo.Delete(ctx, studentID, id); err != nil {
		return repoError(err, "placement test not found", "failed to delete placement test")
	}
	return nil
}

func (s *PlacementService) validate(req dto.PlacementTestRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid placement test payload")
	}
	switch {
	case req.TestDate.IsZero():
		return validationError(errors.New("test_date is required"), "invalid placement test payload")
	case req.TestDate.After(s.clock()):
		return validationError(errors.New("test_date cannot be in the future"), "invalid placement test payload")
	case !req.Score.InRange():
		return validationError(errors.New("score must be between 0 and 20"), "invalid placement test payload")
	}
	return nil
}
