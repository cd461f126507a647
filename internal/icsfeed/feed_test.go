package icsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/harborlane/clinic-calendar/internal/calendar"
	"github.com/harborlane/clinic-calendar/internal/clinic"
	"github.com/harborlane/clinic-calendar/pkg/logging"
)

func nyLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestBuildRoundTrip(t *testing.T) {
	loc := nyLoc(t)
	instant := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)
	appts := []calendar.Appointment{
		{
			ID: "a1", Title: "Botox follow-up", Date: "2024-03-11", Time: "09:00",
			DurationMins: 45, Practitioner: "Dr. Lee", Location: "Room 2",
			Status: calendar.StatusConfirmed,
		},
		{
			ID: "a2", Title: "Synced consult", Date: "2024-03-10", Time: "14:30",
			Status: calendar.StatusPending, Timezone: "UTC", UTCStart: &instant,
		},
	}

	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	cal, err := Build(appts, loc, now)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	parsed, err := ical.ParseCalendar(strings.NewReader(cal.Serialize()))
	if err != nil {
		t.Fatalf("serialized feed failed to parse: %v", err)
	}

	events := parsed.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	byUID := map[string]*ical.VEvent{}
	for _, ev := range events {
		byUID[ev.GetProperty(ical.ComponentPropertyUniqueId).Value] = ev
	}

	wall := byUID["a1@clinic-calendar"]
	if wall == nil {
		t.Fatal("missing wall-clock event")
	}
	start, err := wall.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt failed: %v", err)
	}
	// 09:00 New York wall time on 2024-03-11 is 13:00 UTC (EDT).
	wantStart := time.Date(2024, time.March, 11, 9, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if got := wall.GetProperty(ical.ComponentPropertySummary).Value; got != "Botox follow-up" {
		t.Errorf("summary = %q", got)
	}

	synced := byUID["a2@clinic-calendar"]
	if synced == nil {
		t.Fatal("missing synced event")
	}
	syncedStart, err := synced.GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt failed: %v", err)
	}
	if !syncedStart.Equal(instant) {
		t.Errorf("synced start = %v, want %v", syncedStart, instant)
	}
}

func TestBuildDefaultsDuration(t *testing.T) {
	appts := []calendar.Appointment{
		{ID: "a1", Title: "Quick check", Date: "2024-03-11", Time: "10:00"},
	}

	cal, err := Build(appts, time.UTC, time.Now())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	ev := cal.Events()[0]
	start, _ := ev.GetStartAt()
	end, _ := ev.GetEndAt()
	if end.Sub(start) != 30*time.Minute {
		t.Errorf("duration = %v, want 30m", end.Sub(start))
	}
}

func TestBuildRejectsUnparseableTimes(t *testing.T) {
	appts := []calendar.Appointment{
		{ID: "a1", Date: "tomorrow", Time: "noonish"},
	}
	if _, err := Build(appts, time.UTC, time.Now()); err == nil {
		t.Fatal("expected error for malformed date/time")
	}
}

type fakeSnapshots struct {
	appts   []calendar.Appointment
	gotNav  calendar.Navigator
	gotOrg  string
	wantErr error
}

func (f *fakeSnapshots) Snapshot(_ context.Context, orgID string, nav calendar.Navigator) ([]calendar.Appointment, error) {
	f.gotOrg = orgID
	f.gotNav = nav
	return f.appts, f.wantErr
}

type fakeSettings struct{}

func (fakeSettings) Get(_ context.Context, orgID string) (*clinic.Config, error) {
	cfg := clinic.DefaultConfig(orgID)
	return cfg, nil
}

func TestServeFeed(t *testing.T) {
	snaps := &fakeSnapshots{appts: []calendar.Appointment{
		{ID: "a1", Title: "Consult", Date: "2024-03-11", Time: "10:00", Status: calendar.StatusConfirmed},
	}}
	h := NewHandler(snaps, fakeSettings{}, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/feed.ics?org=org-1&date=2024-03-15", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %s", ct)
	}
	if snaps.gotOrg != "org-1" || snaps.gotNav.Mode != calendar.ModeMonth {
		t.Errorf("snapshot call = org %s nav %+v", snaps.gotOrg, snaps.gotNav)
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("body is not an ICS feed")
	}

	if _, err := ical.ParseCalendar(strings.NewReader(rec.Body.String())); err != nil {
		t.Errorf("served feed failed to parse: %v", err)
	}
}

func TestServeFeedRequiresOrg(t *testing.T) {
	h := NewHandler(&fakeSnapshots{}, fakeSettings{}, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/calendar/feed.ics", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
