// Package controller holds the front-desk flows that sit between a user
// action and the REST API: recompute, validate, then submit.
package controller

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/DrExperiment/ecole-peg-sub000/internal/dto"
)

// FieldError is an input problem reported next to the offending field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors collects every field problem of one submission.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Failure is a backend or network error. Its message is safe to show; the
// cause is only logged and kept for errors.As.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return f.Op + " failed, please try again"
}

func (f *Failure) Unwrap() error { return f.Err }

func failure(logger *zap.Logger, op string, err error) error {
	logger.Error("request failed", zap.String("op", op), zap.Error(err))
	return &Failure{Op: op, Err: err}
}

// fieldErrors turns validator output into FieldErrors keyed by JSON name.
func fieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: "failed rule " + fe.Tag()})
	}
	return out
}

// newFormValidator reports fields by their JSON names.
func newFormValidator() *validator.Validate {
	v := dto.NewValidator()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
