package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	personNamePattern = regexp.MustCompile(`^[\p{L}][\p{L} '\-]{1,99}$`)
	phonePattern      = regexp.MustCompile(`^[\d\s\-\+\(\)\.]{7,}$`)
	postcodePattern   = regexp.MustCompile(`^(\d{4,6})?$`)
	streetNumberRegex = regexp.MustCompile(`^\d*$`)
)

// NewValidator returns a validator with the school's field rules registered:
// personname, phone, postcode and streetnumber.
func NewValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "personname", personNamePattern)
	mustRegister(v, "phone", phonePattern)
	mustRegister(v, "postcode", postcodePattern)
	mustRegister(v, "streetnumber", streetNumberRegex)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}
