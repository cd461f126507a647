// Package attendance records practitioner clock-in and clock-out
// events shown alongside the day view.
package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Shift is one clock-in/clock-out pair. ClockOut is nil while the
// shift is still open.
type Shift struct {
	ID             int64      `json:"id"`
	OrgID          string     `json:"org_id"`
	PractitionerID int64      `json:"practitioner_id"`
	ClockIn        time.Time  `json:"clock_in"`
	ClockOut       *time.Time `json:"clock_out,omitempty"`
}

// ErrShiftOpen is returned when clocking in over an open shift.
var ErrShiftOpen = errors.New("attendance: shift already open")

// ErrNoOpenShift is returned when clocking out with no open shift.
var ErrNoOpenShift = errors.New("attendance: no open shift")

// Repository reads and writes shifts through database/sql.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an attendance repository.
func NewRepository(db *sql.DB) *Repository {
	if db == nil {
		panic("attendance: db required")
	}
	return &Repository{db: db}
}

// Open returns a connected repository for the given Postgres DSN.
func Open(dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("attendance: open db: %w", err)
	}
	return NewRepository(db), nil
}

// ClockIn opens a shift. Fails with ErrShiftOpen if the practitioner
// already has one open.
func (r *Repository) ClockIn(ctx context.Context, orgID string, practitionerID int64, at time.Time) (*Shift, error) {
	var openCount int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM shifts WHERE org_id = $1 AND practitioner_id = $2 AND clock_out IS NULL`,
		orgID, practitionerID).Scan(&openCount)
	if err != nil {
		return nil, fmt.Errorf("attendance: check open shift: %w", err)
	}
	if openCount > 0 {
		return nil, ErrShiftOpen
	}

	var id int64
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO shifts (org_id, practitioner_id, clock_in) VALUES ($1, $2, $3) RETURNING id`,
		orgID, practitionerID, at).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("attendance: clock in: %w", err)
	}

	return &Shift{ID: id, OrgID: orgID, PractitionerID: practitionerID, ClockIn: at}, nil
}

// ClockOut closes the practitioner's open shift.
func (r *Repository) ClockOut(ctx context.Context, orgID string, practitionerID int64, at time.Time) (*Shift, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE shifts SET clock_out = $3
		 WHERE org_id = $1 AND practitioner_id = $2 AND clock_out IS NULL
		 RETURNING id, clock_in`,
		orgID, practitionerID, at)

	var (
		id      int64
		clockIn time.Time
	)
	if err := row.Scan(&id, &clockIn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOpenShift
		}
		return nil, fmt.Errorf("attendance: clock out: %w", err)
	}

	return &Shift{ID: id, OrgID: orgID, PractitionerID: practitionerID, ClockIn: clockIn, ClockOut: &at}, nil
}

// ShiftsForDay returns the tenant's shifts overlapping [dayStart, dayEnd).
func (r *Repository) ShiftsForDay(ctx context.Context, orgID string, dayStart, dayEnd time.Time) ([]Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_id, practitioner_id, clock_in, clock_out FROM shifts
		 WHERE org_id = $1 AND clock_in < $3 AND (clock_out IS NULL OR clock_out >= $2)
		 ORDER BY clock_in`,
		orgID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("attendance: shifts for day: %w", err)
	}
	defer rows.Close()

	var out []Shift
	for rows.Next() {
		var (
			s   Shift
			end sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.OrgID, &s.PractitionerID, &s.ClockIn, &end); err != nil {
			return nil, fmt.Errorf("attendance: scan shift: %w", err)
		}
		if end.Valid {
			t := end.Time
			s.ClockOut = &t
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("attendance: shift rows: %w", err)
	}
	return out, nil
}
