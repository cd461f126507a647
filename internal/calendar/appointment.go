// Package calendar implements the appointment calendar view model:
// date-grid construction, per-day indexing, filtering, timezone
// normalization and reference-date navigation. Everything here is a
// pure data transformation; persistence and transport live elsewhere.
package calendar

import "time"

// Status is the scheduling state of an appointment.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusUrgent    Status = "urgent"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusUrgent, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Source tags where an appointment originated.
type Source string

const (
	SourceNative Source = "native"
	SourceSynced Source = "synced"
)

// Appointment is a scheduled clinical encounter as delivered by the
// backend. Date and Time are wall-clock fields in the governing
// timezone unless the record carries an explicit UTC instant (see
// SourceTime). The view model treats appointment lists as immutable
// snapshots; Normalize returns rewritten copies.
type Appointment struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Date         string     `json:"date"` // YYYY-MM-DD
	Time         string     `json:"time"` // HH:mm
	DurationMins int        `json:"duration_minutes"`
	Patient      string     `json:"patient"`
	Practitioner string     `json:"practitioner"`
	Category     string     `json:"category,omitempty"`
	Status       Status     `json:"status"`
	Location     string     `json:"location,omitempty"`
	Clinic       string     `json:"clinic,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Source       Source     `json:"source,omitempty"`
	TenantID     string     `json:"tenant_id,omitempty"`
	UTCStart     *time.Time `json:"utc_start_time,omitempty"`
	UTCEnd       *time.Time `json:"utc_end_time,omitempty"`
	Timezone     string     `json:"timezone,omitempty"`
}

// SourceTimeKind discriminates the two ways an appointment's moment in
// time can be expressed.
type SourceTimeKind int

const (
	// SourceAbsolute means the record carries a UTC instant that must
	// be converted into the display timezone before grouping.
	SourceAbsolute SourceTimeKind = iota
	// SourceLocalWall means Date/Time are already wall-clock values in
	// the governing timezone and must not be re-converted.
	SourceLocalWall
)

// SourceTime is the tagged variant over the record's time encoding.
type SourceTime struct {
	Kind    SourceTimeKind
	Instant time.Time // valid when Kind == SourceAbsolute
	Date    string    // valid when Kind == SourceLocalWall
	Time    string    // valid when Kind == SourceLocalWall
}

// SourceTime classifies the appointment's time encoding. A record is
// absolute only when it is tagged UTC and actually carries an instant;
// everything else is wall-clock.
func (a Appointment) SourceTime() SourceTime {
	if a.Timezone == "UTC" && a.UTCStart != nil {
		return SourceTime{Kind: SourceAbsolute, Instant: *a.UTCStart}
	}
	return SourceTime{Kind: SourceLocalWall, Date: a.Date, Time: a.Time}
}
