package booking

import (
	"time"

	"carshow/internal/db"
)

// Reconciler timing rules. The repository sweeps express these same
// predicates in SQL; in-memory fakes evaluate them directly.
const (
	// PendingTTL is how long an unpaid pending reservation may sit before the
	// reconciler cancels it.
	PendingTTL = time.Hour
	// ReminderTolerance is the half-width of the reminder match window around
	// the nominal lead time.
	ReminderTolerance = 30 * time.Second
	// PickupReminderLead is how far ahead of the rental start the pickup
	// reminder fires.
	PickupReminderLead = 24 * time.Hour
	// ReturnReminderLead is how far ahead of the rental end the return
	// reminder fires.
	ReturnReminderLead = time.Hour
)

// IsStalePending reports whether the expire-stale-pending sweep should cancel
// the reservation: still pending an hour after creation with a rental that
// has not yet begun.
//
// TODO(product): a pending reservation whose window has already started is
// never expired and stays pending indefinitely unless paid or cancelled by
// hand. Deliberately kept; awaiting a business ruling.
func IsStalePending(r *db.Reservation, now time.Time) bool {
	return r.Status == db.StatusPending &&
		r.CreatedAt.Before(now.Add(-PendingTTL)) &&
		r.StartTime.After(now)
}

// IsStalePartial reports whether the rental start has arrived without full
// payment.
func IsStalePartial(r *db.Reservation, now time.Time) bool {
	return r.Status == db.StatusPartial && !r.StartTime.After(now)
}

// IsDueForActivation reports whether a paid reservation's window currently
// contains now.
func IsDueForActivation(r *db.Reservation, now time.Time) bool {
	return r.Status == db.StatusPaid &&
		!r.StartTime.After(now) && r.EndTime.After(now)
}

// IsDueForCompletion reports whether an active reservation's window has ended.
func IsDueForCompletion(r *db.Reservation, now time.Time) bool {
	return r.Status == db.StatusActive && !r.EndTime.After(now)
}

// PickupReminderWindow is the half-open [from, to) window a rental start must
// fall in for the pickup reminder to fire, centered PickupReminderLead ahead
// of now.
func PickupReminderWindow(now time.Time) (from, to time.Time) {
	center := now.Add(PickupReminderLead)
	return center.Add(-ReminderTolerance), center.Add(ReminderTolerance)
}

// ReturnReminderWindow is the analogous window for the rental end, centered
// ReturnReminderLead ahead of now.
func ReturnReminderWindow(now time.Time) (from, to time.Time) {
	center := now.Add(ReturnReminderLead)
	return center.Add(-ReminderTolerance), center.Add(ReminderTolerance)
}

// NeedsPickupReminder reports whether the pickup reminder should be attempted
// for the reservation at now.
func NeedsPickupReminder(r *db.Reservation, now time.Time) bool {
	if r.PickupReminderSent {
		return false
	}
	if r.Status != db.StatusPaid && r.Status != db.StatusPartial {
		return false
	}
	from, to := PickupReminderWindow(now)
	return !r.StartTime.Before(from) && r.StartTime.Before(to)
}

// NeedsReturnReminder reports whether the return reminder should be attempted
// for the reservation at now.
func NeedsReturnReminder(r *db.Reservation, now time.Time) bool {
	if r.ReturnReminderSent || r.Status != db.StatusActive {
		return false
	}
	from, to := ReturnReminderWindow(now)
	return !r.EndTime.Before(from) && r.EndTime.Before(to)
}
