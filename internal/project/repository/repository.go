package repository

import (
	"context"

	"clinic-access-core/internal/project/domain"
)

// Repository defines persistence for projects. Operations are keyed by
// org; neither org_id nor owner_id is reassigned by Update.
type Repository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Project, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, orgID, id string) error
}
