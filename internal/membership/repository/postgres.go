package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/membership/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const membershipColumns = `id, user_id, org_id, role, created_at`

// GetMembershipByID returns the membership for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetMembershipByID(ctx context.Context, id string) (*domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE id = $1`, id)
	return scanMembership(row)
}

// GetMembershipByUserAndOrg returns the membership for the given user and org, or nil if not found.
// The composite key is matched exactly; there are no partial matches.
func (r *PostgresRepository) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	return scanMembership(row)
}

// ListMembershipsByOrg returns all memberships for the given org. Returns (nil, error) only on database errors.
func (r *PostgresRepository) ListMembershipsByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships WHERE org_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		var role string
		if err := rows.Scan(&m.ID, &m.UserID, &m.OrgID, &role, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role, _ = domain.ParseRole(role)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CreateMembership persists the membership. The membership must have ID set.
// The unique index on (user_id, org_id) rejects a second membership for the same pair.
func (r *PostgresRepository) CreateMembership(ctx context.Context, m *domain.Membership) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO memberships (id, user_id, org_id, role, created_at) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.UserID, m.OrgID, string(m.Role), m.CreatedAt)
	return err
}

// DeleteByUserAndOrg removes the membership for the given user and org.
// Deleting a missing membership is a no-op, not an error.
func (r *PostgresRepository) DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM memberships WHERE user_id = $1 AND org_id = $2`, userID, orgID)
	return err
}

// UpdateRole changes the role on the (user, org) membership and returns
// the updated row, or nil if no such membership exists.
func (r *PostgresRepository) UpdateRole(ctx context.Context, userID, orgID string, role domain.Role) (*domain.Membership, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE memberships SET role = $3 WHERE user_id = $1 AND org_id = $2 RETURNING `+membershipColumns,
		userID, orgID, string(role))
	return scanMembership(row)
}

// CountAdminsByOrg returns how many admin memberships the org has. Used
// to refuse removing or demoting the last admin.
func (r *PostgresRepository) CountAdminsByOrg(ctx context.Context, orgID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM memberships WHERE org_id = $1 AND role = $2`, orgID, string(domain.RoleAdmin)).Scan(&n)
	return n, err
}

func scanMembership(row *sql.Row) (*domain.Membership, error) {
	var m domain.Membership
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.OrgID, &role, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m.Role, _ = domain.ParseRole(role)
	return &m, nil
}
