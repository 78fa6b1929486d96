package window

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrInvalidWindow is returned when the configured daily start time is
// later than the end time. This is a configuration error and aborts the
// run before any vault I/O happens.
var ErrInvalidWindow = errors.New("window: start_time is after end_time")

// Window is the inclusive range of last-modified timestamps eligible
// for selection.
type Window struct {
	Start time.Time
	End   time.Time
}

// TimeOfDay is a clock time within a day, parsed from "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("window: invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) minutes() int { return t.Hour*60 + t.Minute }

var (
	// Defaults when the config leaves start/end time unset.
	DefaultStart = TimeOfDay{Hour: 0, Minute: 0}
	DefaultEnd   = TimeOfDay{Hour: 23, Minute: 59}
)

// Compute builds the window for a run happening at now.
//
// days=1 means today only; days=N extends the start back N-1 full
// calendar days. The start time of day applies to the earliest included
// day, the end time of day only to the final (today's) day — earlier
// days are never clipped at the end boundary. Everything is computed in
// now's location.
func Compute(days int, start, end TimeOfDay, now time.Time) (Window, error) {
	if start.minutes() > end.minutes() {
		return Window{}, ErrInvalidWindow
	}
	if days < 1 {
		log.Printf("WARNING: invalid window day count %d, using 1", days)
		days = 1
	}

	loc := now.Location()
	y, m, d := now.Date()

	endAt := time.Date(y, m, d, end.Hour, end.Minute, 0, 0, loc)
	startDay := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -(days - 1))
	startAt := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), start.Hour, start.Minute, 0, 0, loc)

	return Window{Start: startAt, End: endAt}, nil
}

// Contains reports whether t falls inside the window, inclusive on both
// bounds.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// SameDay reports whether the window starts and ends on the same
// calendar day, which decides the digest subject format.
func (w Window) SameDay() bool {
	sy, sm, sd := w.Start.Date()
	ey, em, ed := w.End.Date()
	return sy == ey && sm == em && sd == ed
}
