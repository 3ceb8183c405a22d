package domain

import (
	"errors"
	"time"
)

// Patient is a clinic patient record. OrgID is required at creation and
// immutable afterwards; cross-tenant reassignment is forbidden.
type Patient struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Phone     string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the patient for persistence. Returns an error describing the first validation failure.
func (p *Patient) Validate() error {
	if p.OrgID == "" {
		return errors.New("org_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// ResourceOrgID reports the owning organization for ability checks.
func (p *Patient) ResourceOrgID() string { return p.OrgID }
