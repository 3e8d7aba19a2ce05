// Package booking holds the pure rental engine: window arithmetic, the
// overlap rule, availability accounting, pricing and the lifecycle state
// machine. The repository layer mirrors these rules in SQL; test fakes reuse
// them directly.
package booking

import (
	"time"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

// Window is a half-open rental interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow derives a window from a rate type and a duration count:
// hourly -> start + duration hours, daily -> start + duration days,
// weekly -> start + duration weeks.
func NewWindow(rateType string, start time.Time, duration int) (Window, error) {
	if duration <= 0 {
		return Window{}, apperrors.ErrInvalidWindow
	}
	var end time.Time
	switch rateType {
	case db.RateHourly:
		end = start.Add(time.Duration(duration) * time.Hour)
	case db.RateDaily:
		end = start.AddDate(0, 0, duration)
	case db.RateWeekly:
		end = start.AddDate(0, 0, 7*duration)
	default:
		return Window{}, apperrors.ErrInvalidWindow
	}
	if !end.After(start) {
		return Window{}, apperrors.ErrInvalidWindow
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. Touching
// windows (one ending exactly when the other starts) do not overlap, so a
// unit freed at T may be re-booked starting at T.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DurationUnits recovers the duration count of a window for the given rate
// type, e.g. a three day window under the daily rate yields 3.
func DurationUnits(rateType string, w Window) int {
	span := w.End.Sub(w.Start)
	switch rateType {
	case db.RateHourly:
		return int(span / time.Hour)
	case db.RateDaily:
		return int(span / (24 * time.Hour))
	case db.RateWeekly:
		return int(span / (7 * 24 * time.Hour))
	default:
		return 0
	}
}
