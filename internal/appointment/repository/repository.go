package repository

import (
	"context"

	"clinic-access-core/internal/appointment/domain"
)

// Repository defines persistence for appointments. Operations are keyed
// by org; updates never change org_id.
type Repository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Appointment, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Appointment, error)
	Create(ctx context.Context, a *domain.Appointment) error
	Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, orgID, id string) error
}
