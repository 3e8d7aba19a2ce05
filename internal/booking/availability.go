package booking

import "carshow/internal/db"

// IsLive reports whether a status counts against car capacity.
func IsLive(status string) bool {
	switch status {
	case db.StatusPending, db.StatusPartial, db.StatusPaid, db.StatusActive:
		return true
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func IsTerminal(status string) bool {
	return status == db.StatusCompleted || status == db.StatusCancelled
}

// OverlappingCount counts the live reservations whose window overlaps w.
// The repository runs the same predicate in SQL; this form serves the
// in-memory fakes and keeps the two in lockstep.
func OverlappingCount(reservations []db.Reservation, w Window) int {
	n := 0
	for _, r := range reservations {
		if !IsLive(r.Status) {
			continue
		}
		if w.Overlaps(Window{Start: r.StartTime, End: r.EndTime}) {
			n++
		}
	}
	return n
}

// AvailableUnits is the number of free units given a fixed capacity and the
// count of live overlapping reservations.
func AvailableUnits(totalUnits, overlapping int) int {
	if free := totalUnits - overlapping; free > 0 {
		return free
	}
	return 0
}
