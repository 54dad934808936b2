package models

import "time"

// Teacher gives sessions and private lessons.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	LastName  string    `db:"last_name" json:"last_name"`
	FirstName string    `db:"first_name" json:"first_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter lists teachers matching a name fragment.
type TeacherFilter struct {
	Search   string
	Page     int
	PageSize int
}
