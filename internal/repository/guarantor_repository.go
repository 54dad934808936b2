package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
)

const guarantorColumns = `g.id, g.last_name, g.first_name, g.street, g.street_number, g.postcode, g.locality,
        g.phone, g.email, g.created_at, g.updated_at`

// GuarantorRepository stores guarantors and their link to students.
type GuarantorRepository struct {
	db *sqlx.DB
}

func NewGuarantorRepository(db *sqlx.DB) *GuarantorRepository {
	return &GuarantorRepository{db: db}
}

// FindByStudent returns the guarantor linked to a student, or sql.ErrNoRows.
func (r *GuarantorRepository) FindByStudent(ctx context.Context, studentID string) (*models.Guarantor, error) {
	query := `SELECT ` + guarantorColumns + ` FROM guarantors g
        JOIN students s ON s.guarantor_id = g.id
        WHERE s.id = $1`
	var g models.Guarantor
	if err := r.db.GetContext(ctx, &g, query, studentID); err != nil {
		return nil, err
	}
	return &g, nil
}

// Attach links the guarantor identified by g's names, phone and email to the
// student, creating it when nobody matches. A guarantor already on file keeps
// its stored address and g is refreshed from the stored row.
func (r *GuarantorRepository) Attach(ctx context.Context, studentID string, g *models.Guarantor) (err error) {
	now := time.Now().UTC()
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin guarantor transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const upsert = `INSERT INTO guarantors (id, last_name, first_name, street, street_number, postcode, locality, phone, email, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
        ON CONFLICT ON CONSTRAINT guarantors_identity_key DO UPDATE SET updated_at = guarantors.updated_at
        RETURNING id, last_name, first_name, street, street_number, postcode, locality, phone, email, created_at, updated_at`
	row := tx.QueryRowxContext(ctx, upsert, uuid.NewString(), g.LastName, g.FirstName, g.Street, g.StreetNumber,
		g.Postcode, g.Locality, g.Phone, g.Email, now)
	if err = row.StructScan(g); err != nil {
		return mapWriteError("upsert guarantor", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE students SET guarantor_id = $1, updated_at = $2 WHERE id = $3`, g.ID, now, studentID)
	if err != nil {
		return mapWriteError("link guarantor", err)
	}
	if err = expectAffected(res); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit guarantor: %w", err)
	}
	return nil
}

// Detach clears a student's guarantor. The guarantor row stays for the other
// students it covers.
func (r *GuarantorRepository) Detach(ctx context.Context, studentID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET guarantor_id = NULL, updated_at = $2
        WHERE id = $1 AND guarantor_id IS NOT NULL`, studentID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("detach guarantor: %w", err)
	}
	return expectAffected(res)
}
