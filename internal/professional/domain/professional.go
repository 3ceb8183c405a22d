package domain

import (
	"errors"
	"time"
)

// Professional is a clinician or staff member attached to one organization.
type Professional struct {
	ID        string
	OrgID     string
	Name      string
	Email     string
	Specialty string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the professional for persistence. Returns an error describing the first validation failure.
func (p *Professional) Validate() error {
	if p.OrgID == "" {
		return errors.New("org_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// ResourceOrgID reports the owning organization for ability checks.
func (p *Professional) ResourceOrgID() string { return p.OrgID }
