package calendar

import "time"

// ViewMode selects the calendar layout.
type ViewMode string

const (
	ModeMonth ViewMode = "month"
	ModeWeek  ViewMode = "week"
	ModeDay   ViewMode = "day"
	ModeList  ViewMode = "list"
)

// Valid reports whether m is a known view mode.
func (m ViewMode) Valid() bool {
	switch m {
	case ModeMonth, ModeWeek, ModeDay, ModeList:
		return true
	}
	return false
}

// monthGridSize is the fixed 6x7 month layout, independent of how many
// weeks the month actually spans.
const monthGridSize = 42

// daysPerWeek is the week-mode grid length.
const daysPerWeek = 7

// ListLimit caps list-mode rendering. It is a bounded-render
// safeguard, not pagination: only "first N in current order" is
// guaranteed.
const ListLimit = 50

// BuildGrid returns the ordered day sequence for the given reference
// date and mode. Month mode always yields 42 cells, week mode 7 cells
// starting on the Sunday on or before ref, day mode a single cell.
// List mode has no date axis and yields nil.
func BuildGrid(ref time.Time, mode ViewMode) []time.Time {
	switch mode {
	case ModeMonth:
		return monthGrid(ref)
	case ModeWeek:
		return weekGrid(ref)
	case ModeDay:
		return []time.Time{dayOf(ref)}
	default:
		return nil
	}
}

func monthGrid(ref time.Time) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	// Walk back to the Sunday starting the first row, then emit 42
	// consecutive days; the tail pads into the next month.
	start := first.AddDate(0, 0, -int(first.Weekday()))
	grid := make([]time.Time, 0, monthGridSize)
	for i := 0; i < monthGridSize; i++ {
		grid = append(grid, start.AddDate(0, 0, i))
	}
	return grid
}

func weekGrid(ref time.Time) []time.Time {
	day := dayOf(ref)
	sunday := day.AddDate(0, 0, -int(day.Weekday()))
	grid := make([]time.Time, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		grid = append(grid, sunday.AddDate(0, 0, i))
	}
	return grid
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
