package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestClockIn(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2024, time.March, 10, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM shifts WHERE org_id = \$1 AND practitioner_id = \$2 AND clock_out IS NULL`).
		WithArgs("org-1", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`INSERT INTO shifts \(org_id, practitioner_id, clock_in\) VALUES \(\$1, \$2, \$3\) RETURNING id`).
		WithArgs("org-1", int64(5), at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	shift, err := repo.ClockIn(context.Background(), "org-1", 5, at)
	if err != nil {
		t.Fatalf("ClockIn failed: %v", err)
	}
	if shift.ID != 42 || !shift.ClockIn.Equal(at) || shift.ClockOut != nil {
		t.Errorf("shift = %+v", shift)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestClockInRejectsOpenShift(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM shifts`).
		WithArgs("org-1", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.ClockIn(context.Background(), "org-1", 5, time.Now())
	if !errors.Is(err, ErrShiftOpen) {
		t.Fatalf("err = %v, want ErrShiftOpen", err)
	}
}

func TestClockOut(t *testing.T) {
	repo, mock := newMockRepo(t)
	in := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	out := in.Add(8 * time.Hour)

	mock.ExpectQuery(`UPDATE shifts SET clock_out = \$3`).
		WithArgs("org-1", int64(5), out).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clock_in"}).AddRow(int64(42), in))

	shift, err := repo.ClockOut(context.Background(), "org-1", 5, out)
	if err != nil {
		t.Fatalf("ClockOut failed: %v", err)
	}
	if shift.ClockOut == nil || !shift.ClockOut.Equal(out) {
		t.Errorf("ClockOut = %v", shift.ClockOut)
	}
	if !shift.ClockIn.Equal(in) {
		t.Errorf("ClockIn = %v", shift.ClockIn)
	}
}

func TestClockOutWithoutOpenShift(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE shifts SET clock_out = \$3`).
		WithArgs("org-1", int64(5), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "clock_in"}))

	_, err := repo.ClockOut(context.Background(), "org-1", 5, time.Now())
	if !errors.Is(err, ErrNoOpenShift) {
		t.Fatalf("err = %v, want ErrNoOpenShift", err)
	}
}

func TestShiftsForDay(t *testing.T) {
	repo, mock := newMockRepo(t)
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	in := start.Add(9 * time.Hour)
	out := start.Add(17 * time.Hour)

	mock.ExpectQuery(`SELECT id, org_id, practitioner_id, clock_in, clock_out FROM shifts`).
		WithArgs("org-1", start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "practitioner_id", "clock_in", "clock_out"}).
			AddRow(int64(1), "org-1", int64(5), in, out).
			AddRow(int64(2), "org-1", int64(6), in, nil))

	shifts, err := repo.ShiftsForDay(context.Background(), "org-1", start, end)
	if err != nil {
		t.Fatalf("ShiftsForDay failed: %v", err)
	}
	if len(shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(shifts))
	}
	if shifts[0].ClockOut == nil || !shifts[0].ClockOut.Equal(out) {
		t.Errorf("closed shift = %+v", shifts[0])
	}
	if shifts[1].ClockOut != nil {
		t.Errorf("open shift should have nil clock_out, got %v", shifts[1].ClockOut)
	}
}
