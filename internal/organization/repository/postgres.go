package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/organization/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an organization repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orgColumns = `id, name, slug, owner_id, status, created_at`

// GetByID returns the organization for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	return scanOrg(r.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id))
}

// GetBySlug returns the organization for slug, or nil if not found.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*domain.Org, error) {
	return scanOrg(r.db.QueryRowContext(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE slug = $1`, slug))
}

// Create persists the organization. The organization must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.Org) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO organizations (id, name, slug, owner_id, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Name, o.Slug, o.OwnerID, string(o.Status), o.CreatedAt)
	return err
}

// TransferOwnership sets a new owner and returns the updated org, or nil
// if the org does not exist.
func (r *PostgresRepository) TransferOwnership(ctx context.Context, orgID, newOwnerID string) (*domain.Org, error) {
	return scanOrg(r.db.QueryRowContext(ctx,
		`UPDATE organizations SET owner_id = $2 WHERE id = $1 RETURNING `+orgColumns,
		orgID, newOwnerID))
}

func scanOrg(row *sql.Row) (*domain.Org, error) {
	var o domain.Org
	var status string
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.OwnerID, &status, &o.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Status = domain.OrgStatus(status)
	return &o, nil
}
