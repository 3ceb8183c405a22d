package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/professional/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a professional repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const professionalColumns = `id, org_id, name, email, specialty, created_at, updated_at`

// GetByID returns the professional for (org, id), or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Professional, error) {
	return scanProfessional(r.db.QueryRowContext(ctx,
		`SELECT `+professionalColumns+` FROM professionals WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns professionals for the given org, paginated by limit and offset.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Professional, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+professionalColumns+` FROM professionals WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Professional
	for rows.Next() {
		var p domain.Professional
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Email, &p.Specialty, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Create persists the professional. The professional must have ID and OrgID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Professional) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO professionals (id, org_id, name, email, specialty, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OrgID, p.Name, p.Email, p.Specialty, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update writes mutable fields and returns the updated professional, or
// nil if no row matches (org, id).
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error) {
	return scanProfessional(r.db.QueryRowContext(ctx,
		`UPDATE professionals SET name = $3, email = $4, specialty = $5, updated_at = $6
		 WHERE org_id = $1 AND id = $2 RETURNING `+professionalColumns,
		p.OrgID, p.ID, p.Name, p.Email, p.Specialty, p.UpdatedAt))
}

// Delete removes the professional for (org, id). Deleting a missing row is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM professionals WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}

func scanProfessional(row *sql.Row) (*domain.Professional, error) {
	var p domain.Professional
	if err := row.Scan(&p.ID, &p.OrgID, &p.Name, &p.Email, &p.Specialty, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
