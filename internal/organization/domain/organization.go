package domain

import (
	"errors"
	"time"
)

// Org represents an organization, the tenant boundary. Every clinic
// domain resource references exactly one Org; that reference is set at
// creation and never reassigned.
type Org struct {
	ID        string
	Name      string
	Slug      string
	OwnerID   string
	Status    OrgStatus
	CreatedAt time.Time
}

type OrgStatus string

const (
	OrgStatusActive    OrgStatus = "active"
	OrgStatusSuspended OrgStatus = "suspended"
)

// Validate validates the organization for persistence. Returns an error describing the first validation failure.
func (o *Org) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if o.Slug == "" {
		return errors.New("slug is required")
	}
	if o.OwnerID == "" {
		return errors.New("owner is required")
	}
	if o.Status == "" {
		o.Status = OrgStatusActive
	}
	return nil
}

// ResourceOrgID makes Org tenant-scoped to itself for ability checks.
func (o *Org) ResourceOrgID() string { return o.ID }

// ResourceOwnerID reports the current owner for the ownership-transfer carve-out.
func (o *Org) ResourceOwnerID() string { return o.OwnerID }
