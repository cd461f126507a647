// Package icsfeed exports a tenant's appointments as an iCalendar
// feed for external calendar subscriptions.
package icsfeed

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/harborlane/clinic-calendar/internal/calendar"
)

const defaultDurationMins = 30

// Build renders appointments into a VCALENDAR. Wall-clock appointments
// are anchored in loc; UTC-tagged synced appointments keep their
// absolute instant.
func Build(appts []calendar.Appointment, loc *time.Location, now time.Time) (*ical.Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//Harbor Lane//Clinic Calendar//EN")

	for _, a := range appts {
		start, err := eventStart(a, loc)
		if err != nil {
			return nil, err
		}

		duration := time.Duration(a.DurationMins) * time.Minute
		if duration <= 0 {
			duration = defaultDurationMins * time.Minute
		}

		ev := cal.AddEvent(fmt.Sprintf("%s@clinic-calendar", a.ID))
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(duration))
		ev.SetSummary(a.Title)
		if a.Location != "" {
			ev.SetLocation(a.Location)
		}
		if a.Practitioner != "" {
			ev.SetDescription(fmt.Sprintf("Practitioner: %s", a.Practitioner))
		}
		ev.SetProperty(ical.ComponentProperty("STATUS"), icsStatus(a.Status))
	}

	return cal, nil
}

func eventStart(a calendar.Appointment, loc *time.Location) (time.Time, error) {
	st := a.SourceTime()
	if st.Kind == calendar.SourceAbsolute {
		return st.Instant.UTC(), nil
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", a.Date+" "+a.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("icsfeed: appointment %s has unparseable date/time %q %q: %w",
			a.ID, a.Date, a.Time, err)
	}
	return t, nil
}

func icsStatus(s calendar.Status) string {
	switch s {
	case calendar.StatusConfirmed, calendar.StatusCompleted:
		return "CONFIRMED"
	case calendar.StatusCancelled:
		return "CANCELLED"
	default:
		return "TENTATIVE"
	}
}
