package movies

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

const monthLayout = "January 2006"

// Window is a release date range. A zero End leaves the window open upward.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	if d.Before(w.Start) {
		return false
	}
	return w.End.IsZero() || !d.After(w.End)
}

// Label renders the window for user-facing messages:
// "August 2026, September 2026" for a bounded window,
// "February 2026 onward" for an open one.
func (w Window) Label() string {
	if w.End.IsZero() {
		return w.Start.Format(monthLayout) + " onward"
	}
	var months []string
	for m := monthStart(w.Start); !m.After(w.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(monthLayout))
	}
	return strings.Join(months, ", ")
}

// Windows computes the two supported release windows relative to the clock.
type Windows struct {
	clock clockwork.Clock
}

// NewWindows creates a window calculator. Pass a fake clock in tests.
func NewWindows(clock clockwork.Clock) *Windows {
	return &Windows{clock: clock}
}

// Primary covers the current and next calendar month.
func (w *Windows) Primary() Window {
	start := monthStart(w.clock.Now().UTC())
	return Window{
		Start: start,
		End:   start.AddDate(0, 2, 0).AddDate(0, 0, -1),
	}
}

// Fallback starts six months before the current month and stays open upward.
func (w *Windows) Fallback() Window {
	return Window{
		Start: monthStart(w.clock.Now().UTC()).AddDate(0, -6, 0),
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
