package models

import (
	"time"

	"github.com/DrExperiment/ecole-peg-sub000/internal/domain"
)

// Sex codes.
const (
	SexFemale = "F"
	SexMale   = "M"
)

// Student represents a learner registered at the school.
type Student struct {
	ID             string      `db:"id" json:"id"`
	LastName       string      `db:"last_name" json:"last_name"`
	FirstName      string      `db:"first_name" json:"first_name"`
	BirthDate      domain.Date `db:"birth_date" json:"birth_date"`
	BirthPlace     string      `db:"birth_place" json:"birth_place"`
	Sex            string      `db:"sex" json:"sex"`
	Phone          string      `db:"phone" json:"phone"`
	Email          string      `db:"email" json:"email"`
	Street         *string     `db:"street" json:"street,omitempty"`
	StreetNumber   *string     `db:"street_number" json:"street_number,omitempty"`
	Postcode       *string     `db:"postcode" json:"postcode,omitempty"`
	Locality       *string     `db:"locality" json:"locality,omitempty"`
	BillingAddress *string     `db:"billing_address" json:"billing_address,omitempty"`
	Country        string      `db:"country" json:"country"`
	Level          *string     `db:"level" json:"level,omitempty"`
	NativeLanguage *string     `db:"native_language" json:"native_language,omitempty"`
	OtherLanguages *string     `db:"other_languages" json:"other_languages,omitempty"`
	Comments       *string     `db:"comments" json:"comments,omitempty"`
	GuarantorID    *string     `db:"guarantor_id" json:"guarantor_id,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Student activity filters. A student is active while holding an ACTIVE
// enrollment and inactive once every enrollment they hold is INACTIVE;
// students who never enrolled are neither.
const (
	StudentsActive   = "active"
	StudentsInactive = "inactive"
)

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	BirthDate *domain.Date
	Activity  string
	Page      int
	PageSize  int
}

// BirthdayEntry is a student whose birthday falls in the current month.
type BirthdayEntry struct {
	ID        string      `db:"id" json:"id"`
	LastName  string      `db:"last_name" json:"last_name"`
	FirstName string      `db:"first_name" json:"first_name"`
	BirthDate domain.Date `db:"birth_date" json:"birth_date"`
}
