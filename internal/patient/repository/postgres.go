package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/patient/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a patient repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const patientColumns = `id, org_id, name, email, phone, birth_date, created_at, updated_at`

// GetByID returns the patient for (org, id), or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns patients for the given org, paginated by limit and offset.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Patient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+patientColumns+` FROM patients WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Patient
	for rows.Next() {
		p, err := scanPatientRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Create persists the patient. The patient must have ID and OrgID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Patient) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO patients (id, org_id, name, email, phone, birth_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OrgID, p.Name, p.Email, p.Phone, p.BirthDate, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update writes mutable fields and returns the updated patient, or nil
// if no row matches (org, id). org_id is part of the key, never an
// assignment: the tenant reference is immutable.
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	return scanPatient(r.db.QueryRowContext(ctx,
		`UPDATE patients SET name = $3, email = $4, phone = $5, birth_date = $6, updated_at = $7
		 WHERE org_id = $1 AND id = $2 RETURNING `+patientColumns,
		p.OrgID, p.ID, p.Name, p.Email, p.Phone, p.BirthDate, p.UpdatedAt))
}

// Delete removes the patient for (org, id). Deleting a missing row is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM patients WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row *sql.Row) (*domain.Patient, error) {
	p, err := scanPatientRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func scanPatientRow(s rowScanner) (*domain.Patient, error) {
	var p domain.Patient
	var birthDate sql.NullTime
	if err := s.Scan(&p.ID, &p.OrgID, &p.Name, &p.Email, &p.Phone, &birthDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		t := birthDate.Time
		p.BirthDate = &t
	}
	return &p, nil
}
