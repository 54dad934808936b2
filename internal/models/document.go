package models

import "time"

// StudentDocument is an uploaded file attached to a student record. The
// bytes live in document storage under StorageKey.
type StudentDocument struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	Name        string    `db:"name" json:"name"`
	FileName    string    `db:"file_name" json:"file_name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	StorageKey  string    `db:"storage_key" json:"-"`
	AddedAt     time.Time `db:"added_at" json:"added_at"`
}

// DocumentLink is a document together with a short-lived download URL.
type DocumentLink struct {
	StudentDocument
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
