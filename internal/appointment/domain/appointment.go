package domain

import (
	"errors"
	"time"
)

// Appointment links a patient and a professional at a time slot within
// one organization.
type Appointment struct {
	ID             string
	OrgID          string
	PatientID      string
	ProfessionalID string
	StartsAt       time.Time
	EndsAt         time.Time
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Validate validates the appointment for persistence. Returns an error describing the first validation failure.
func (a *Appointment) Validate() error {
	if a.OrgID == "" {
		return errors.New("org_id is required")
	}
	if a.PatientID == "" {
		return errors.New("patient_id is required")
	}
	if a.ProfessionalID == "" {
		return errors.New("professional_id is required")
	}
	if a.StartsAt.IsZero() {
		return errors.New("starts_at is required")
	}
	if !a.EndsAt.IsZero() && !a.EndsAt.After(a.StartsAt) {
		return errors.New("ends_at must be after starts_at")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	return nil
}

// ResourceOrgID reports the owning organization for ability checks.
func (a *Appointment) ResourceOrgID() string { return a.OrgID }
