package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/project/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a project repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const projectColumns = `id, org_id, owner_id, name, created_at, updated_at`

// GetByID returns the project for (org, id), or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns projects for the given org, paginated by limit and offset.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.OrgID, &p.OwnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// Create persists the project. The project must have ID, OrgID, and OwnerID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Project) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, org_id, owner_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OrgID, p.OwnerID, p.Name, p.CreatedAt, p.UpdatedAt)
	return err
}

// Update renames the project and returns the updated row, or nil if no
// row matches (org, id).
func (r *PostgresRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	return scanProject(r.db.QueryRowContext(ctx,
		`UPDATE projects SET name = $3, updated_at = $4
		 WHERE org_id = $1 AND id = $2 RETURNING `+projectColumns,
		p.OrgID, p.ID, p.Name, p.UpdatedAt))
}

// Delete removes the project for (org, id). Deleting a missing row is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}

func scanProject(row *sql.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(&p.ID, &p.OrgID, &p.OwnerID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
