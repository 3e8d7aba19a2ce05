package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"carshow/internal/db"
)

func TestIsStalePending(t *testing.T) {
	now := baseTime
	stale := &db.Reservation{
		Status:    db.StatusPending,
		CreatedAt: now.Add(-2 * time.Hour),
		StartTime: now.Add(3 * time.Hour),
	}
	assert.True(t, IsStalePending(stale, now))

	fresh := &db.Reservation{
		Status:    db.StatusPending,
		CreatedAt: now.Add(-30 * time.Minute),
		StartTime: now.Add(3 * time.Hour),
	}
	assert.False(t, IsStalePending(fresh, now))

	// A pending reservation whose rental already started is left alone.
	started := &db.Reservation{
		Status:    db.StatusPending,
		CreatedAt: now.Add(-48 * time.Hour),
		StartTime: now.Add(-time.Hour),
	}
	assert.False(t, IsStalePending(started, now))

	paid := &db.Reservation{
		Status:    db.StatusPaid,
		CreatedAt: now.Add(-2 * time.Hour),
		StartTime: now.Add(3 * time.Hour),
	}
	assert.False(t, IsStalePending(paid, now))
}

func TestIsStalePartial(t *testing.T) {
	now := baseTime
	assert.True(t, IsStalePartial(&db.Reservation{Status: db.StatusPartial, StartTime: now}, now))
	assert.True(t, IsStalePartial(&db.Reservation{Status: db.StatusPartial, StartTime: now.Add(-time.Minute)}, now))
	assert.False(t, IsStalePartial(&db.Reservation{Status: db.StatusPartial, StartTime: now.Add(time.Minute)}, now))
	assert.False(t, IsStalePartial(&db.Reservation{Status: db.StatusPending, StartTime: now}, now))
}

func TestIsDueForActivation(t *testing.T) {
	now := baseTime
	due := &db.Reservation{Status: db.StatusPaid, StartTime: now, EndTime: now.Add(time.Hour)}
	assert.True(t, IsDueForActivation(due, now))

	early := &db.Reservation{Status: db.StatusPaid, StartTime: now.Add(time.Minute), EndTime: now.Add(time.Hour)}
	assert.False(t, IsDueForActivation(early, now))

	over := &db.Reservation{Status: db.StatusPaid, StartTime: now.Add(-2 * time.Hour), EndTime: now}
	assert.False(t, IsDueForActivation(over, now))
}

func TestIsDueForCompletion(t *testing.T) {
	now := baseTime
	assert.True(t, IsDueForCompletion(&db.Reservation{Status: db.StatusActive, EndTime: now}, now))
	assert.True(t, IsDueForCompletion(&db.Reservation{Status: db.StatusActive, EndTime: now.Add(-time.Hour)}, now))
	assert.False(t, IsDueForCompletion(&db.Reservation{Status: db.StatusActive, EndTime: now.Add(time.Minute)}, now))
	assert.False(t, IsDueForCompletion(&db.Reservation{Status: db.StatusPaid, EndTime: now}, now))
}

func TestReminderWindows(t *testing.T) {
	now := baseTime

	from, to := PickupReminderWindow(now)
	assert.Equal(t, now.Add(PickupReminderLead-ReminderTolerance), from)
	assert.Equal(t, now.Add(PickupReminderLead+ReminderTolerance), to)

	from, to = ReturnReminderWindow(now)
	assert.Equal(t, now.Add(ReturnReminderLead-ReminderTolerance), from)
	assert.Equal(t, now.Add(ReturnReminderLead+ReminderTolerance), to)
}

func TestNeedsPickupReminder(t *testing.T) {
	now := baseTime
	start := now.Add(PickupReminderLead)

	res := &db.Reservation{Status: db.StatusPaid, StartTime: start}
	assert.True(t, NeedsPickupReminder(res, now))

	res.Status = db.StatusPartial
	assert.True(t, NeedsPickupReminder(res, now))

	res.PickupReminderSent = true
	assert.False(t, NeedsPickupReminder(res, now))

	res.PickupReminderSent = false
	res.Status = db.StatusPending
	assert.False(t, NeedsPickupReminder(res, now))

	// The match window is half-open: the lower bound is in, the upper is out.
	lower := &db.Reservation{Status: db.StatusPaid, StartTime: start.Add(-ReminderTolerance)}
	assert.True(t, NeedsPickupReminder(lower, now))
	upper := &db.Reservation{Status: db.StatusPaid, StartTime: start.Add(ReminderTolerance)}
	assert.False(t, NeedsPickupReminder(upper, now))
}

func TestNeedsReturnReminder(t *testing.T) {
	now := baseTime
	end := now.Add(ReturnReminderLead)

	res := &db.Reservation{Status: db.StatusActive, EndTime: end}
	assert.True(t, NeedsReturnReminder(res, now))

	res.ReturnReminderSent = true
	assert.False(t, NeedsReturnReminder(res, now))

	res.ReturnReminderSent = false
	res.Status = db.StatusPaid
	assert.False(t, NeedsReturnReminder(res, now))
}
