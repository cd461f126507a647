package calendar

import "time"

// Cell is a single rendered day: its date, whether it belongs to the
// displayed month, whether it is today in the display zone, and the
// appointments indexed to it. Cells are transient per render and never
// persisted.
type Cell struct {
	Date         string        `json:"date"`
	InMonth      bool          `json:"in_month"`
	IsToday      bool          `json:"is_today"`
	Appointments []Appointment `json:"appointments"`
}

// View is one fully derived render pass.
type View struct {
	Mode      ViewMode      `json:"mode"`
	Reference string        `json:"reference"`
	Timezone  string        `json:"timezone"`
	Cells     []Cell        `json:"cells,omitempty"`
	List      []Appointment `json:"list,omitempty"`
	Total     int           `json:"total"`
	Empty     bool          `json:"empty"`
}

// BuildView runs the full derivation pipeline: normalize the snapshot
// into the display zone, filter it, index it by day, then lay the days
// out on the mode's grid. It is a pure function; memoization is the
// caller's concern since recomputing is always safe.
func BuildView(snapshot []Appointment, nav Navigator, crit Criteria, norm *Normalizer, now time.Time) View {
	normalized := norm.NormalizeAll(snapshot)
	visible := Filter(normalized, crit)

	view := View{
		Mode:      nav.Mode,
		Reference: DateKey(nav.Reference),
		// The abbreviation reflects viewer-detected vs tenant-configured
		// zone and is computed once per render pass.
		Timezone: norm.Abbreviation(now),
		Total:    len(visible),
		Empty:    len(visible) == 0,
	}

	if nav.Mode == ModeList {
		if len(visible) > ListLimit {
			visible = visible[:ListLimit]
		}
		view.List = visible
		return view
	}

	ix := BuildIndex(visible)
	grid := BuildGrid(nav.Reference, nav.Mode)
	today := DateKey(now.In(norm.Location()))
	refMonth := nav.Reference.Month()

	cells := make([]Cell, 0, len(grid))
	for _, day := range grid {
		key := DateKey(day)
		cells = append(cells, Cell{
			Date:         key,
			InMonth:      day.Month() == refMonth,
			IsToday:      key == today,
			Appointments: ix.Lookup(day),
		})
	}
	view.Cells = cells
	return view
}

// FilterPanel tracks the applied-vs-pending criteria split: pending
// edits only become applied on explicit confirm, and reopening the
// panel resets pending back to whatever is applied.
type FilterPanel struct {
	applied Criteria
	pending Criteria
	open    bool
}

// NewFilterPanel starts with the given criteria applied.
func NewFilterPanel(initial Criteria) *FilterPanel {
	return &FilterPanel{applied: initial, pending: initial}
}

// Open resets pending to applied and marks the panel open.
func (p *FilterPanel) Open() {
	p.pending = p.applied
	p.open = true
}

// SetPending stages criteria without applying them.
func (p *FilterPanel) SetPending(c Criteria) {
	p.pending = c
}

// Apply commits the pending criteria and closes the panel.
func (p *FilterPanel) Apply() Criteria {
	p.applied = p.pending
	p.open = false
	return p.applied
}

// Cancel closes the panel, discarding pending edits.
func (p *FilterPanel) Cancel() {
	p.pending = p.applied
	p.open = false
}

// Applied returns the committed criteria.
func (p *FilterPanel) Applied() Criteria { return p.applied }

// Pending returns the staged criteria.
func (p *FilterPanel) Pending() Criteria { return p.pending }

// IsOpen reports whether the panel is open.
func (p *FilterPanel) IsOpen() bool { return p.open }
