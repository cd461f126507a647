package calendar

import "time"

// Normalizer rewrites appointment date/time fields into the display
// timezone. Two modes exist:
//
//   - viewer mode (central, cross-tenant view): records tagged UTC
//     with an absolute instant are converted into the viewer's
//     detected zone; wall-clock records pass through untouched.
//   - tenant mode: records are assumed to already be in the clinic's
//     configured zone and are never converted, whatever timezone
//     metadata they carry.
type Normalizer struct {
	loc     *time.Location
	convert bool
}

// NewViewerNormalizer builds a normalizer for the central view, using
// the viewer's detected location.
func NewViewerNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, convert: true}
}

// NewTenantNormalizer builds a pass-through normalizer that reports
// the tenant's configured location.
func NewTenantNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc, convert: false}
}

// Location returns the display location in effect.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize returns a copy of a with Date and Time rewritten into the
// display zone where the mode calls for it. All other fields pass
// through unchanged. The branch is a total match over the SourceTime
// variant.
func (n *Normalizer) Normalize(a Appointment) Appointment {
	st := a.SourceTime()
	switch st.Kind {
	case SourceAbsolute:
		if !n.convert {
			return a
		}
		local := st.Instant.In(n.loc)
		a.Date = DateKey(local)
		a.Time = local.Format("15:04")
		return a
	case SourceLocalWall:
		return a
	default:
		return a
	}
}

// NormalizeAll maps Normalize over the snapshot, returning a new
// slice.
func (n *Normalizer) NormalizeAll(appts []Appointment) []Appointment {
	out := make([]Appointment, len(appts))
	for i, a := range appts {
		out[i] = n.Normalize(a)
	}
	return out
}

// Abbreviation returns the display zone's abbreviation ("EST", "PDT")
// at the given instant. It does not vary per appointment within a
// render pass, so callers compute it once per render.
func (n *Normalizer) Abbreviation(now time.Time) string {
	return now.In(n.loc).Format("MST")
}
