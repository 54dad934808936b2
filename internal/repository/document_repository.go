package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const documentColumns = `id, student_id, name, file_name, content_type, size_bytes, storage_key, added_at`

// DocumentRepository stores the metadata of uploaded student documents.
type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// ListByStudent returns a student's documents, most recent upload first.
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.StudentDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM student_documents WHERE student_id = $1 ORDER BY added_at DESC`
	var docs []models.StudentDocument
	if err := r.db.SelectContext(ctx, &docs, query, studentID); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.StudentDocument, error) {
	var doc models.StudentDocument
	if err := r.db.GetContext(ctx, &doc, `SELECT `+documentColumns+` FROM student_documents WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *models.StudentDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.AddedAt = time.Now().UTC()
	const query = `INSERT INTO student_documents (id, student_id, name, file_name, content_type, size_bytes, storage_key, added_at)
        VALUES (:id, :student_id, :name, :file_name, :content_type, :size_bytes, :storage_key, :added_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return mapWriteError("create document", err)
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return expectAffected(res)
}
