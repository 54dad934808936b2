package dto

import "github.com/DrExperiment/ecole-peg-sub000/internal/domain"

// StudentRequest is used for both creating and replacing a student.
type StudentRequest struct {
	LastName       string      `json:"last_name" validate:"required,personname"`
	FirstName      string      `json:"first_name" validate:"required,personname"`
	BirthDate      domain.Date `json:"birth_date"`
	BirthPlace     string      `json:"birth_place" validate:"required,max=100"`
	Sex            string      `json:"sex" validate:"required,oneof=F M"`
	Phone          string      `json:"phone" validate:"required,phone,max=255"`
	Email          string      `json:"email" validate:"required,email"`
	Street         *string     `json:"street,omitempty" validate:"omitempty,max=200"`
	StreetNumber   *string     `json:"street_number,omitempty" validate:"omitempty,max=10,streetnumber"`
	Postcode       *string     `json:"postcode,omitempty" validate:"omitempty,postcode"`
	Locality       *string     `json:"locality,omitempty" validate:"omitempty,max=100"`
	BillingAddress *string     `json:"billing_address,omitempty" validate:"omitempty,max=200"`
	Country        string      `json:"country" validate:"required,max=100"`
	Level          *string     `json:"level,omitempty" validate:"omitempty,oneof=A1 A2 B1 B2 C1"`
	NativeLanguage *string     `json:"native_language,omitempty" validate:"omitempty,max=100"`
	OtherLanguages *string     `json:"other_languages,omitempty" validate:"omitempty,max=200"`
	Comments       *string     `json:"comments,omitempty"`
}

// TeacherRequest creates or replaces a teacher.
type TeacherRequest struct {
	LastName  string `json:"last_name" validate:"required,min=2,max=20"`
	FirstName string `json:"first_name" validate:"required,min=2,max=20"`
}

// GuarantorRequest names the person answering for a student. An existing
// guarantor with the same names, phone and email is reused.
type GuarantorRequest struct {
	LastName     string  `json:"last_name" validate:"required,personname"`
	FirstName    string  `json:"first_name" validate:"required,personname"`
	Street       *string `json:"street,omitempty" validate:"omitempty,max=200"`
	StreetNumber *string `json:"street_number,omitempty" validate:"omitempty,max=10,streetnumber"`
	Postcode     *string `json:"postcode,omitempty" validate:"omitempty,postcode"`
	Locality     *string `json:"locality,omitempty" validate:"omitempty,max=100"`
	Phone        string  `json:"phone" validate:"required,phone,max=255"`
	Email        string  `json:"email" validate:"required,email"`
}

// PlacementTestRequest records an entry test result.
type PlacementTestRequest struct {
	TestDate domain.Date  `json:"test_date"`
	Level    string       `json:"level" validate:"required,oneof=A1 A2 B1 B2 C1"`
	Score    domain.Score `json:"score"`
}
