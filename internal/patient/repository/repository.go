package repository

import (
	"context"

	"clinic-access-core/internal/patient/domain"
)

// Repository defines persistence for patients. Every operation is keyed
// by org so a row from another tenant can never be read or touched, and
// updates never change org_id.
type Repository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Patient, error)
	ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Patient, error)
	Create(ctx context.Context, p *domain.Patient) error
	Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error)
	Delete(ctx context.Context, orgID, id string) error
}
