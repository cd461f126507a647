package calendar

// Style is the render styling attached to a clinic, status or
// category label.
type Style struct {
	Background string `json:"background"`
	Border     string `json:"border"`
	Text       string `json:"text"`
}

// Palette holds the immutable color/label lookup tables injected at
// construction. Unmapped keys resolve to an explicit neutral fallback
// rather than relying on missing-key behavior.
type Palette struct {
	clinics    map[string]Style
	statuses   map[string]Style
	categories map[string]Style
	fallback   Style
}

// NewPalette copies the given tables into an immutable palette.
func NewPalette(clinics, statuses, categories map[string]Style, fallback Style) *Palette {
	return &Palette{
		clinics:    copyStyles(clinics),
		statuses:   copyStyles(statuses),
		categories: copyStyles(categories),
		fallback:   fallback,
	}
}

// DefaultPalette mirrors the portal's stock theme.
func DefaultPalette() *Palette {
	neutral := Style{Background: "#f1f5f9", Border: "#cbd5e1", Text: "#334155"}
	return NewPalette(
		nil,
		map[string]Style{
			string(StatusConfirmed): {Background: "#dcfce7", Border: "#22c55e", Text: "#166534"},
			string(StatusPending):   {Background: "#fef9c3", Border: "#eab308", Text: "#854d0e"},
			string(StatusUrgent):    {Background: "#fee2e2", Border: "#ef4444", Text: "#991b1b"},
			string(StatusCancelled): {Background: "#f3f4f6", Border: "#9ca3af", Text: "#4b5563"},
			string(StatusCompleted): {Background: "#dbeafe", Border: "#3b82f6", Text: "#1e40af"},
		},
		nil,
		neutral,
	)
}

// ClinicStyle resolves the style for a clinic name.
func (p *Palette) ClinicStyle(name string) Style {
	return p.resolve(p.clinics, name)
}

// StatusStyle resolves the style for an appointment status.
func (p *Palette) StatusStyle(s Status) Style {
	return p.resolve(p.statuses, string(s))
}

// CategoryStyle resolves the style for a category/type label.
func (p *Palette) CategoryStyle(name string) Style {
	return p.resolve(p.categories, name)
}

func (p *Palette) resolve(table map[string]Style, key string) Style {
	if style, ok := table[key]; ok {
		return style
	}
	return p.fallback
}

func copyStyles(in map[string]Style) map[string]Style {
	out := make(map[string]Style, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
