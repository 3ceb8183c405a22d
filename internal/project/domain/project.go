package domain

import (
	"errors"
	"time"
)

// Project is an owner-scoped work item inside one organization. Members
// may update or delete only the projects they own.
type Project struct {
	ID        string
	OrgID     string
	OwnerID   string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the project for persistence. Returns an error describing the first validation failure.
func (p *Project) Validate() error {
	if p.OrgID == "" {
		return errors.New("org_id is required")
	}
	if p.OwnerID == "" {
		return errors.New("owner_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// ResourceOrgID reports the owning organization for ability checks.
func (p *Project) ResourceOrgID() string { return p.OrgID }

// ResourceOwnerID reports the owning user for owner-scoped rules.
func (p *Project) ResourceOwnerID() string { return p.OwnerID }
