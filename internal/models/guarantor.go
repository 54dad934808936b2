package models

import "time"

// Guarantor is the person answering for a student's fees. A guarantor is
// identified by name, phone and email and may cover several students.
type Guarantor struct {
	ID           string    `db:"id" json:"id"`
	LastName     string    `db:"last_name" json:"last_name"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Street       *string   `db:"street" json:"street,omitempty"`
	StreetNumber *string   `db:"street_number" json:"street_number,omitempty"`
	Postcode     *string   `db:"postcode" json:"postcode,omitempty"`
	Locality     *string   `db:"locality" json:"locality,omitempty"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
