package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

type guarantorRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.Guarantor, error)
	Attach(ctx context.Context, studentID string, g *models.Guarantor) error
	Detach(ctx context.Context, studentID string) error
}

type studentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

func ensureStudent(ctx context.Context, students studentLookup, id string) (*models.Student, error) {
	student, err := students.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// GuarantorService manages the guarantor attached to a student.
type GuarantorService struct {
	repo      guarantorRepository
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
}

func NewGuarantorService(repo guarantorRepository, students studentLookup, validate *validator.Validate, logger *zap.Logger) *GuarantorService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuarantorService{repo: repo, students: students, validator: validate, logger: logger}
}

func (s *GuarantorService) Get(ctx context.Context, studentID string) (*models.Guarantor, error) {
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}
	g, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, repoError(err, "student has no guarantor", "failed to load guarantor")
	}
	return g, nil
}

// Assign links a guarantor to the student, reusing a guarantor already on
// file under the same names, phone and email.
func (s *GuarantorService) Assign(ctx context.Context, studentID string, req dto.GuarantorRequest) (*models.Guarantor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid guarantor payload")
	}
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return nil, err
	}
	g := &models.Guarantor{
		LastName:     req.LastName,
		FirstName:    req.FirstName,
		Street:       req.Street,
		StreetNumber: req.StreetNumber,
		Postcode:     req.Postcode,
		Locality:     req.Locality,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	if err := s.repo.Attach(ctx, studentID, g); err != nil {
		return nil, repoError(err, "student not found", "failed to assign guarantor")
	}
	s.logger.Info("guarantor assigned", zap.String("student_id", studentID), zap.String("guarantor_id", g.ID))
	return g, nil
}

// Remove detaches the student's guarantor without deleting it.
func (s *GuarantorService) Remove(ctx context.Context, studentID string) error {
	if _, err := ensureStudent(ctx, s.students, studentID); err != nil {
		return err
	}
	if err := s.repo.Detach(ctx, studentID); err != nil {
		return repoError(err, "student has no guarantor", "failed to remove guarantor")
	}
	return nil
}
