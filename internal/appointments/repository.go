// Package appointments loads appointment snapshots and practitioner
// rosters for the calendar view model.
package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborlane/clinic-calendar/internal/calendar"
)

// Practitioner is a bookable staff member as shown in the filter
// panel.
type Practitioner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// queryDB is the pgx subset the repository needs; pgxmock satisfies it
// in tests.
type queryDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads appointment rows from Postgres.
type Repository struct {
	db queryDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db queryDB) *Repository {
	return &Repository{db: db}
}

const appointmentColumns = `id, title, appointment_date, start_time, duration_mins,
	patient_name, practitioner_name, category, status, location_name,
	clinic_name, notes, source, org_id, utc_start, utc_end, timezone`

// ListForRange returns a tenant's appointments with dates in
// [start, end), ordered by date then time-of-day.
func (r *Repository) ListForRange(ctx context.Context, orgID string, start, end time.Time) ([]calendar.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE org_id = $1 AND appointment_date >= $2 AND appointment_date < $3
		ORDER BY appointment_date, start_time`

	rows, err := r.db.Query(ctx, query, orgID, start, end)
	if err != nil {
		return nil, fmt.Errorf("appointments: list for range: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListCentral returns a practitioner's appointments across every
// tenant they work in, for the central cross-tenant view.
func (r *Repository) ListCentral(ctx context.Context, practitionerID int64, start, end time.Time) ([]calendar.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE practitioner_id = $1 AND appointment_date >= $2 AND appointment_date < $3
		ORDER BY appointment_date, start_time`

	rows, err := r.db.Query(ctx, query, practitionerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("appointments: list central: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// ListPractitioners returns the tenant's practitioner roster.
func (r *Repository) ListPractitioners(ctx context.Context, orgID string) ([]Practitioner, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name FROM practitioners WHERE org_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list practitioners: %w", err)
	}
	defer rows.Close()

	var out []Practitioner
	for rows.Next() {
		var p Practitioner
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("appointments: scan practitioner: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: practitioner rows: %w", err)
	}
	return out, nil
}

func scanAppointments(rows pgx.Rows) ([]calendar.Appointment, error) {
	var out []calendar.Appointment
	for rows.Next() {
		var (
			a        calendar.Appointment
			day      time.Time
			status   string
			category *string
			location *string
			clinic   *string
			notes    *string
			source   *string
			tz       *string
		)
		if err := rows.Scan(
			&a.ID, &a.Title, &day, &a.Time, &a.DurationMins,
			&a.Patient, &a.Practitioner, &category, &status, &location,
			&clinic, &notes, &source, &a.TenantID, &a.UTCStart, &a.UTCEnd, &tz,
		); err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		a.Date = calendar.DateKey(day)
		a.Status = calendar.Status(status)
		a.Category = deref(category)
		a.Location = deref(location)
		a.Clinic = deref(clinic)
		a.Notes = deref(notes)
		a.Source = calendar.Source(deref(source))
		a.Timezone = deref(tz)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows: %w", err)
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
