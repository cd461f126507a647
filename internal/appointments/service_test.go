package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

type fakeRepo struct {
	appts []calendar.Appointment
	err   error

	gotOrgID string
	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeRepo) ListForRange(_ context.Context, orgID string, start, end time.Time) ([]calendar.Appointment, error) {
	f.gotOrgID = orgID
	f.gotStart = start
	f.gotEnd = end
	return f.appts, f.err
}

func (f *fakeRepo) ListCentral(_ context.Context, _ int64, start, end time.Time) ([]calendar.Appointment, error) {
	f.gotStart = start
	f.gotEnd = end
	return f.appts, f.err
}

func (f *fakeRepo) ListPractitioners(_ context.Context, orgID string) ([]Practitioner, error) {
	f.gotOrgID = orgID
	return []Practitioner{{ID: 1, Name: "Dr. Lee"}}, f.err
}

func TestSnapshotFetchesGridRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logging.Default())

	nav := calendar.Navigator{
		Reference: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Mode:      calendar.ModeMonth,
	}
	if _, err := svc.Snapshot(context.Background(), "org-1", nav); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	// March 2024's 42-cell grid runs Feb 25 through Apr 6; the fetch
	// window is half-open on Apr 7.
	if got := calendar.DateKey(repo.gotStart); got != "2024-02-25" {
		t.Errorf("start = %s, want 2024-02-25", got)
	}
	if got := calendar.DateKey(repo.gotEnd); got != "2024-04-07" {
		t.Errorf("end = %s, want 2024-04-07", got)
	}
	if repo.gotOrgID != "org-1" {
		t.Errorf("orgID = %s", repo.gotOrgID)
	}
}

func TestSnapshotWeekRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logging.Default())

	nav := calendar.Navigator{
		Reference: time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
		Mode:      calendar.ModeWeek,
	}
	if _, err := svc.Snapshot(context.Background(), "org-1", nav); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if got := calendar.DateKey(repo.gotStart); got != "2024-03-10" {
		t.Errorf("start = %s, want 2024-03-10", got)
	}
	if got := calendar.DateKey(repo.gotEnd); got != "2024-03-17" {
		t.Errorf("end = %s, want 2024-03-17", got)
	}
}

func TestSnapshotListModeFetchesMonth(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logging.Default())

	nav := calendar.Navigator{
		Reference: time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
		Mode:      calendar.ModeList,
	}
	if _, err := svc.Snapshot(context.Background(), "org-1", nav); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if got := calendar.DateKey(repo.gotStart); got != "2024-02-25" {
		t.Errorf("start = %s, want 2024-02-25", got)
	}
}

func TestSnapshotPropagatesError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("db down")}
	svc := NewService(repo, logging.Default())

	nav := calendar.Navigator{
		Reference: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		Mode:      calendar.ModeDay,
	}
	if _, err := svc.Snapshot(context.Background(), "org-1", nav); err == nil {
		t.Fatal("expected error")
	}
}

func TestPractitioners(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, logging.Default())

	got, err := svc.Practitioners(context.Background(), "org-7")
	if err != nil {
		t.Fatalf("Practitioners failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Dr. Lee" {
		t.Errorf("got %+v", got)
	}
	if repo.gotOrgID != "org-7" {
		t.Errorf("orgID = %s", repo.gotOrgID)
	}
}
