package repository

import (
	"context"

	"clinic-access-core/internal/membership/domain"
)

// Repository defines persistence for memberships. Lookups are exact on
// their keys; a missing row is (nil, nil), never an error and never a
// default role.
type Repository interface {
	GetMembershipByID(ctx context.Context, id string) (*domain.Membership, error)
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembershipsByOrg(ctx context.Context, orgID string) ([]*domain.Membership, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error
	UpdateRole(ctx context.Context, userID, orgID string, role domain.Role) (*domain.Membership, error)
	CountAdminsByOrg(ctx context.Context, orgID string) (int64, error)
}
