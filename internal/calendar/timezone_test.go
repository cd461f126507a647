package calendar

import (
	"testing"
	"time"
)

func utcAppointment(t *testing.T, instant string) Appointment {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		t.Fatalf("bad instant %q: %v", instant, err)
	}
	return Appointment{
		ID:       "1",
		Date:     DateKey(ts.UTC()),
		Time:     ts.UTC().Format("15:04"),
		Timezone: "UTC",
		UTCStart: &ts,
	}
}

func TestViewerNormalizerConvertsUTCInstant(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	norm := NewViewerNormalizer(ny)

	// 14:30Z on 2024-03-10 falls after the US DST switch: UTC-4.
	got := norm.Normalize(utcAppointment(t, "2024-03-10T14:30:00Z"))

	if got.Date != "2024-03-10" {
		t.Errorf("Date = %s, want 2024-03-10", got.Date)
	}
	if got.Time != "10:30" {
		t.Errorf("Time = %s, want 10:30", got.Time)
	}
}

func TestViewerNormalizerCanShiftCalendarDate(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	norm := NewViewerNormalizer(ny)

	// 02:00Z is the previous evening in New York.
	got := norm.Normalize(utcAppointment(t, "2024-06-15T02:00:00Z"))

	if got.Date != "2024-06-14" {
		t.Errorf("Date = %s, want 2024-06-14", got.Date)
	}
	if got.Time != "22:00" {
		t.Errorf("Time = %s, want 22:00", got.Time)
	}
}

func TestViewerNormalizerPassesThroughWallClock(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	norm := NewViewerNormalizer(ny)

	appt := Appointment{ID: "1", Date: "2024-03-10", Time: "09:00", Timezone: "America/Chicago"}
	got := norm.Normalize(appt)

	if got.Date != "2024-03-10" || got.Time != "09:00" {
		t.Errorf("wall-clock record was rewritten: %+v", got)
	}
}

func TestViewerNormalizerRequiresInstant(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	norm := NewViewerNormalizer(ny)

	// Tagged UTC but without an instant: optional-field guard skips
	// conversion.
	appt := Appointment{ID: "1", Date: "2024-03-10", Time: "14:30", Timezone: "UTC"}
	got := norm.Normalize(appt)

	if got.Date != "2024-03-10" || got.Time != "14:30" {
		t.Errorf("record without UTC instant was rewritten: %+v", got)
	}
}

func TestTenantNormalizerNeverConverts(t *testing.T) {
	chicago, _ := time.LoadLocation("America/Chicago")
	norm := NewTenantNormalizer(chicago)

	appt := utcAppointment(t, "2024-03-10T14:30:00Z")
	got := norm.Normalize(appt)

	if got.Date != appt.Date || got.Time != appt.Time {
		t.Errorf("tenant mode rewrote fields: %+v", got)
	}
}

func TestAbbreviationReflectsActiveZone(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	winter := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	summer := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)

	viewer := NewViewerNormalizer(ny)
	if got := viewer.Abbreviation(winter); got != "EST" {
		t.Errorf("winter abbreviation = %s, want EST", got)
	}
	if got := viewer.Abbreviation(summer); got != "EDT" {
		t.Errorf("summer abbreviation = %s, want EDT", got)
	}
}

func TestNilLocationFallsBackToUTC(t *testing.T) {
	norm := NewViewerNormalizer(nil)
	if norm.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", norm.Location())
	}
}

func TestNormalizeAllPreservesLength(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	norm := NewViewerNormalizer(ny)

	in := []Appointment{
		utcAppointment(t, "2024-03-10T14:30:00Z"),
		{ID: "2", Date: "2024-03-11", Time: "08:00"},
	}
	out := norm.NormalizeAll(in)

	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	// Input snapshot must stay untouched.
	if in[0].Time != "14:30" {
		t.Errorf("input mutated: %+v", in[0])
	}
}
