package calendar

import "strings"

// FilterAll is the sentinel meaning "no constraint on this dimension".
const FilterAll = "all"

// Criteria is the set of predicates applied to the appointment
// snapshot before indexing. Practitioners holds the display names of
// the selected practitioners (tenant-scoped views only); an empty set
// means no practitioner constraint.
type Criteria struct {
	Clinic        string   `json:"clinic"`
	Status        string   `json:"status"`
	Practitioners []string `json:"practitioners,omitempty"`
}

// Matches reports whether the appointment passes every criterion.
//
// Practitioner matching is substring containment on the display name,
// not identifier equality. That tolerates title prefixes ("Dr. Lee"
// vs "Lee") at the cost of false positives on name collisions; it is
// a known imprecision carried over deliberately.
func (c Criteria) Matches(a Appointment) bool {
	if !wildcard(c.Clinic) && a.Clinic != c.Clinic {
		return false
	}
	if !wildcard(c.Status) && string(a.Status) != c.Status {
		return false
	}
	if len(c.Practitioners) == 0 {
		return true
	}
	for _, name := range c.Practitioners {
		if name != "" && strings.Contains(a.Practitioner, name) {
			return true
		}
	}
	return false
}

// Filter returns the appointments passing the criteria, in input
// order. An empty result is valid and renders as an explicit empty
// state, never an error.
func Filter(appts []Appointment, c Criteria) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if c.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func wildcard(v string) bool {
	return v == "" || v == FilterAll
}
