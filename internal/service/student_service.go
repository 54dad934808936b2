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

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	ListPreRegistered(ctx context.Context) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// ListPreRegistered returns students with a pending pre-registration.
func (s *StudentService) ListPreRegistered(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.ListPreRegistered(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pre-registered students")
	}
	return students, nil
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "student not found", "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	student := &models.Student{}
	applyStudent(student, req)
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, repoError(err, "student not found", "failed to create student")
	}
	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}

// Update replaces a student's fields.
func (s *StudentService) Update(ctx context.Context, id string, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "student not found", "failed to load student")
	}
	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}
	applyStudent(student, req)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, repoError(err, "student not found", "failed to update student")
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return repoError(err, "student not found", "failed to delete student")
	}
	return nil
}

func (s *StudentService) validate(req dto.StudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid student payload")
	}
	if req.BirthDate.IsZero() {
		return validationError(errors.New("birth_date is required"), "invalid student payload")
	}
	return nil
}

func (s *StudentService) ensureEmailFree(ctx context.Context, email, excludeID string) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already used")
	}
	return nil
}

func applyStudent(student *models.Student, req dto.StudentRequest) {
	student.LastName = req.LastName
	student.FirstName = req.FirstName
	student.BirthDate = req.BirthDate
	student.BirthPlace = req.BirthPlace
	student.Sex = req.Sex
	student.Phone = req.Phone
	student.Email = req.Email
	student.Street = req.Street
	student.StreetNumber = req.StreetNumber
	student.Postcode = req.Postcode
	student.Locality = req.Locality
	student.BillingAddress = req.BillingAddress
	student.Country = req.Country
	student.Level = req.Level
	student.NativeLanguage = req.NativeLanguage
	student.OtherLanguages = req.OtherLanguages
	student.Comments = req.Comments
}
