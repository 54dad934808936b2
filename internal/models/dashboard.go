package models

// LevelCount is the number of students at a language level.
type LevelCount struct {
	Level string `db:"level" json:"level"`
	Count int    `db:"count" json:"count"`
}

// OpenSessionSeats is an open session with its remaining seats.
type OpenSessionSeats struct {
	SessionID  string `db:"session_id" json:"session_id"`
	CourseName string `db:"course_name" json:"course_name"`
	Capacity   int    `db:"capacity" json:"capacity"`
	SeatsLeft  int    `db:"seats_left" json:"seats_left"`
}

// DashboardStats aggregates the front-desk overview.
type DashboardStats struct {
	UnpaidInvoices    int                `json:"unpaid_invoices"`
	Courses           int                `json:"courses"`
	OpenSessions      int                `json:"open_sessions"`
	PrivateLessons    int                `json:"private_lessons"`
	Students          int                `json:"students"`
	ActiveStudents    int                `json:"active_students"`
	Levels            []LevelCount       `json:"levels"`
	SessionsWithSeats []OpenSessionSeats `json:"sessions_with_seats"`
	Birthdays         []BirthdayEntry    `json:"birthdays"`
}
