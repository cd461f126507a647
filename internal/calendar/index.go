package calendar

import (
	"fmt"
	"time"
)

// Index groups appointments by their calendar date key for O(1)
// per-day lookup. Keys are the records' date strings used verbatim so
// that construction and lookup agree byte-for-byte.
type Index map[string][]Appointment

// BuildIndex groups the given appointments by date. It is a pure
// function of its input; callers re-run it whenever the filtered list
// changes.
func BuildIndex(appts []Appointment) Index {
	ix := make(Index, len(appts))
	for _, a := range appts {
		ix[a.Date] = append(ix[a.Date], a)
	}
	return ix
}

// Lookup returns the appointments on the given day. The day is keyed
// with local calendar fields, never UTC accessors, to avoid
// off-by-one-day drift against the indexed date strings. The result is
// empty, never nil, when the day has no entries.
func (ix Index) Lookup(day time.Time) []Appointment {
	if appts, ok := ix[DateKey(day)]; ok {
		return appts
	}
	return []Appointment{}
}

// DateKey formats t's local calendar fields as zero-padded YYYY-MM-DD,
// the same shape the backend uses for appointment dates.
func DateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}
