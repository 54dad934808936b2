package service

import (
	"database/sql"
	"errors"

	"github.com/DrExperiment/ecole-peg-sub000/internal/repository"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
)

// repoError maps a repository failure to an API error. Missing rows become
// notFound, constraint violations become conflicts or validation errors.
func repoError(err error, notFound, message string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record already exists")
	case errors.Is(err, repository.ErrReference):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "record is referenced by or references missing data")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
