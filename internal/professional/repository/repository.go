package repository

import (
	"context"

	"clinic-access-core/internal/professional/domain"
)

// Repository defines persistence for professionals. Operations are keyed
// by org; updates never change org_id.
type Repository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Professional, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Professional, error)
	Create(ctx context.Context, p *domain.Professional) error
	Update(ctx context.Context, p *domain.Professional) (*domain.Professional, error)
	Delete(ctx context.Context, orgID, id string) error
}
