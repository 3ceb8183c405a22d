package repository

import (
	"context"
	"database/sql"
	"errors"

	"clinic-access-core/internal/appointment/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an appointment repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const appointmentColumns = `id, org_id, patient_id, professional_id, starts_at, ends_at, status, created_at, updated_at`

// GetByID returns the appointment for (org, id), or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Appointment, error) {
	return scanAppointment(r.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE org_id = $1 AND id = $2`, orgID, id))
}

// ListByOrg returns appointments for the given org ordered by start time,
// paginated by limit and offset.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE org_id = $1 ORDER BY starts_at LIMIT $2 OFFSET $3`,
		orgID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		var status string
		if err := rows.Scan(&a.ID, &a.OrgID, &a.PatientID, &a.ProfessionalID, &a.StartsAt, &a.EndsAt, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Status = domain.Status(status)
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Create persists the appointment. The appointment must have ID and OrgID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (id, org_id, patient_id, professional_id, starts_at, ends_at, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.OrgID, a.PatientID, a.ProfessionalID, a.StartsAt, a.EndsAt, string(a.Status), a.CreatedAt, a.UpdatedAt)
	return err
}

// Update writes mutable fields and returns the updated appointment, or
// nil if no row matches (org, id).
func (r *PostgresRepository) Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	return scanAppointment(r.db.QueryRowContext(ctx,
		`UPDATE appointments SET patient_id = $3, professional_id = $4, starts_at = $5, ends_at = $6, status = $7, updated_at = $8
		 WHERE org_id = $1 AND id = $2 RETURNING `+appointmentColumns,
		a.OrgID, a.ID, a.PatientID, a.ProfessionalID, a.StartsAt, a.EndsAt, string(a.Status), a.UpdatedAt))
}

// Delete removes the appointment for (org, id). Deleting a missing row is a no-op.
func (r *PostgresRepository) Delete(ctx context.Context, orgID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE org_id = $1 AND id = $2`, orgID, id)
	return err
}

func scanAppointment(row *sql.Row) (*domain.Appointment, error) {
	var a domain.Appointment
	var status string
	if err := row.Scan(&a.ID, &a.OrgID, &a.PatientID, &a.ProfessionalID, &a.StartsAt, &a.EndsAt, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Status = domain.Status(status)
	return &a, nil
}
