package calendar

import (
	"strings"
	"time"
)

// Direction moves the reference date backward or forward.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// Navigator is the (referenceDate, viewMode) state machine driving
// the calendar. All transitions are total; list mode simply has no
// date axis.
type Navigator struct {
	Reference time.Time
	Mode      ViewMode
}

// NewNavigator starts at the given reference date and mode. Invalid
// modes fall back to month.
func NewNavigator(ref time.Time, mode ViewMode) *Navigator {
	if !mode.Valid() {
		mode = ModeMonth
	}
	return &Navigator{Reference: dayOf(ref), Mode: mode}
}

// Navigate shifts the reference date by one step of the active mode:
// a calendar month, seven days, or one day. AddDate's month semantics
// apply (Jan 31 + 1 month normalizes per the platform). List mode
// ignores the transition.
func (n *Navigator) Navigate(dir Direction) {
	step := 1
	if dir == Prev {
		step = -1
	}
	switch n.Mode {
	case ModeMonth:
		n.Reference = n.Reference.AddDate(0, step, 0)
	case ModeWeek:
		n.Reference = n.Reference.AddDate(0, 0, 7*step)
	case ModeDay:
		n.Reference = n.Reference.AddDate(0, 0, step)
	case ModeList:
		// no date axis
	}
}

// SetViewMode changes the mode without touching the reference date.
func (n *Navigator) SetViewMode(mode ViewMode) {
	if mode.Valid() {
		n.Mode = mode
	}
}

// GoToToday snaps the reference date to the current date in its
// location, independent of mode.
func (n *Navigator) GoToToday(now time.Time) {
	n.Reference = dayOf(now)
}

// KeyEvent is a keyboard event as reported by the portal client.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

// HandleKey applies the calendar keyboard bindings and reports whether
// the event was consumed. Bindings are inactive while a modal or
// detail dialog is open, and modified presses (Ctrl/Cmd held) are
// never consumed so browser shortcuts keep working.
//
//	Left/Right  navigate prev/next
//	t           go to today
//	m/w/d/l     switch view mode
func (n *Navigator) HandleKey(ev KeyEvent, modalOpen bool, now time.Time) bool {
	if modalOpen || ev.Ctrl || ev.Meta {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "arrowleft", "left":
		n.Navigate(Prev)
	case "arrowright", "right":
		n.Navigate(Next)
	case "t":
		n.GoToToday(now)
	case "m":
		n.SetViewMode(ModeMonth)
	case "w":
		n.SetViewMode(ModeWeek)
	case "d":
		n.SetViewMode(ModeDay)
	case "l":
		n.SetViewMode(ModeList)
	default:
		return false
	}
	return true
}
