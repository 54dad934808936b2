package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

type enrollmentAPI interface {
	ListSessions(ctx context.Context) ([]models.SessionDetail, error)
	GetEnrollment(ctx context.Context, studentID, id string) (*models.EnrollmentDetail, error)
	UpdateEnrollment(ctx context.Context, studentID, id string, req dto.EnrollmentRequest) (*models.EnrollmentDetail, error)
}

// EnrollmentEditor saves enrollment edits with a freshly derived status.
type EnrollmentEditor struct {
	api    enrollmentAPI
	logger *zap.Logger
}

func NewEnrollmentEditor(api enrollmentAPI, logger *zap.Logger) *EnrollmentEditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentEditor{api: api, logger: logger}
}

// DeriveStatus resolves the session of changes among sessions. An
// unresolved session keeps previous.
func DeriveStatus(sessions []models.SessionDetail, changes dto.EnrollmentRequest, previous domain.EnrollmentStatus) domain.EnrollmentStatus {
	refs := make([]domain.SessionRef, 0, len(sessions))
	for _, s := range sessions {
		refs = append(refs, s.Ref())
	}
	return domain.DeriveEnrollmentStatus(changes.RegisteredOn, domain.FindSession(refs, changes.SessionID), previous)
}

// Save loads the stored enrollment for its current status, derives the new
// status from the session list and submits the edit with PUT. A failed
// session lookup is logged and the stored status is kept.
func (e *EnrollmentEditor) Save(ctx context.Context, studentID, enrollmentID string, changes dto.EnrollmentRequest) (*models.EnrollmentDetail, error) {
	if changes.SessionID == "" {
		return nil, FieldErrors{{Field: "session_id", Message: "required"}}
	}
	if err := domain.ValidateExit(changes.RegisteredOn, changes.ExitDate); err != nil {
		return nil, FieldErrors{{Field: "exit_date", Message: err.Error()}}
	}

	current, err := e.api.GetEnrollment(ctx, studentID, enrollmentID)
	if err != nil {
		return nil, failure(e.logger, "enrollment lookup", err)
	}

	sessions, err := e.api.ListSessions(ctx)
	if err != nil {
		e.logger.Warn("session list unavailable, keeping enrollment status",
			zap.String("enrollment_id", enrollmentID), zap.Error(err))
		sessions = nil
	}
	changes.Status = DeriveStatus(sessions, changes, current.Status)

	saved, err := e.api.UpdateEnrollment(ctx, studentID, enrollmentID, changes)
	if err != nil {
		return nil, failure(e.logger, "enrollment update", err)
	}
	return saved, nil
}

// Load returns the stored enrollment as an editable request.
func (e *EnrollmentEditor) Load(ctx context.Context, studentID, enrollmentID string) (dto.EnrollmentRequest, error) {
	current, err := e.api.GetEnrollment(ctx, studentID, enrollmentID)
	if err != nil {
		return dto.EnrollmentRequest{}, failure(e.logger, "enrollment lookup", err)
	}
	return dto.EnrollmentRequest{
		SessionID:       current.SessionID,
		RegisteredOn:    current.RegisteredOn,
		Purpose:         current.Purpose,
		Fee:             current.Fee,
		PreRegistration: current.PreRegistration,
		ExitDate:        current.ExitDate,
		ExitReason:      current.ExitReason,
		Status:          current.Status,
	}, nil
}
