package repository

import (
	"context"

	"clinic-access-core/internal/organization/domain"
)

// Repository defines persistence for organizations. The owner reference
// changes only through TransferOwnership; the row itself is never
// re-tenanted.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Org, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Org, error)
	Create(ctx context.Context, o *domain.Org) error
	TransferOwnership(ctx context.Context, orgID, newOwnerID string) (*domain.Org, error)
}
