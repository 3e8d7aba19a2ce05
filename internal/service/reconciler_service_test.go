package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshow/internal/booking"
	"carshow/internal/db"
	"carshow/internal/entities"
)

// fakeReconcilerStore runs the sweeps against the in-memory store using the
// same booking predicates the SQL sweeps encode.
type fakeReconcilerStore struct {
	*fakeStore
}

func (s *fakeReconcilerStore) notice(res *db.Reservation) entities.ReservationNotice {
	car := s.cars[res.CarID]
	user := s.users[res.UserID]
	return entities.ReservationNotice{
		ReservationID: res.ID,
		Code:          res.Code,
		CarID:         res.CarID,
		UserID:        res.UserID,
		CarLabel:      car.Label(),
		UserName:      user.Name,
		UserPhone:     user.PhoneNumber,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Status:        res.Status,
	}
}

func (s *fakeReconcilerStore) sweep(pred func(*db.Reservation) bool, newStatus string) ([]entities.ReservationNotice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var notices []entities.ReservationNotice
	for _, res := range s.reservations {
		if !pred(res) {
			continue
		}
		res.Status = newStatus
		notices = append(notices, s.notice(res))
	}
	return notices, nil
}

func (s *fakeReconcilerStore) CancelStalePending(now time.Time) ([]entities.ReservationNotice, error) {
	return s.sweep(func(r *db.Reservation) bool { return booking.IsStalePending(r, now) }, db.StatusCancelled)
}

func (s *fakeReconcilerStore) CancelStalePartial(now time.Time) ([]entities.ReservationNotice, error) {
	return s.sweep(func(r *db.Reservation) bool { return booking.IsStalePartial(r, now) }, db.StatusCancelled)
}

func (s *fakeReconcilerStore) ActivateDue(now time.Time) ([]entities.ReservationNotice, error) {
	return s.sweep(func(r *db.Reservation) bool { return booking.IsDueForActivation(r, now) }, db.StatusActive)
}

func (s *fakeReconcilerStore) CompleteDue(now time.Time) ([]entities.ReservationNotice, error) {
	return s.sweep(func(r *db.Reservation) bool { return booking.IsDueForCompletion(r, now) }, db.StatusCompleted)
}

func (s *fakeReconcilerStore) ClaimPickupReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := 0
	for _, res := range s.reservations {
		if res.PickupReminderSent {
			continue
		}
		if res.Status != db.StatusPaid && res.Status != db.StatusPartial {
			continue
		}
		if res.StartTime.Before(from) || !res.StartTime.Before(to) {
			continue
		}
		if send(s.notice(res)) {
			res.PickupReminderSent = true
			sent++
		}
	}
	return sent, nil
}

func (s *fakeReconcilerStore) ClaimReturnReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := 0
	for _, res := range s.reservations {
		if res.ReturnReminderSent || res.Status != db.StatusActive {
			continue
		}
		if res.EndTime.Before(from) || !res.EndTime.Before(to) {
			continue
		}
		if send(s.notice(res)) {
			res.ReturnReminderSent = true
			sent++
		}
	}
	return sent, nil
}

func (s *fakeReconcilerStore) add(res db.Reservation) {
	s.nextID++
	res.ID = s.nextID
	s.reservations[res.Code] = &res
}

func newReconcilerFixture(notifier *fakeNotifier) (*fakeReconcilerStore, *ReconcilerService) {
	store := &fakeReconcilerStore{fakeStore: seededStore()}
	recon := NewReconcilerService(store, NewSenderService(notifier), nil)
	recon.now = func() time.Time { return testNow }
	return store, recon
}

func TestReconcilerCancelsStalePending(t *testing.T) {
	notifier := &fakeNotifier{}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "STALE001", CarID: 1, UserID: 7, Status: db.StatusPending,
		CreatedAt: testNow.Add(-2 * time.Hour),
		StartTime: testNow.Add(3 * time.Hour), EndTime: testNow.Add(27 * time.Hour),
	})
	store.add(db.Reservation{
		Code: "FRESH001", CarID: 1, UserID: 7, Status: db.StatusPending,
		CreatedAt: testNow.Add(-10 * time.Minute),
		StartTime: testNow.Add(3 * time.Hour), EndTime: testNow.Add(27 * time.Hour),
	})

	recon.Run()

	assert.Equal(t, db.StatusCancelled, store.reservations["STALE001"].Status)
	assert.Equal(t, db.StatusPending, store.reservations["FRESH001"].Status)
	assert.Equal(t, 1, notifier.count())

	// Idempotent: a second pass finds nothing to do.
	recon.Run()
	assert.Equal(t, 1, notifier.count())
}

func TestReconcilerLeavesStartedPendingAlone(t *testing.T) {
	notifier := &fakeNotifier{}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "INWINDOW", CarID: 1, UserID: 7, Status: db.StatusPending,
		CreatedAt: testNow.Add(-48 * time.Hour),
		StartTime: testNow.Add(-time.Hour), EndTime: testNow.Add(23 * time.Hour),
	})

	recon.Run()

	assert.Equal(t, db.StatusPending, store.reservations["INWINDOW"].Status)
	assert.Equal(t, 0, notifier.count())
}

func TestReconcilerCancelsPartialAtStart(t *testing.T) {
	notifier := &fakeNotifier{}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "HALF0001", CarID: 1, UserID: 7, Status: db.StatusPartial,
		CreatedAt: testNow.Add(-24 * time.Hour),
		StartTime: testNow, EndTime: testNow.Add(24 * time.Hour),
	})

	recon.Run()

	assert.Equal(t, db.StatusCancelled, store.reservations["HALF0001"].Status)
	assert.Equal(t, 1, notifier.count())
}

func TestReconcilerActivatesAndCompletes(t *testing.T) {
	notifier := &fakeNotifier{}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "PAID0001", CarID: 1, UserID: 7, Status: db.StatusPaid,
		CreatedAt: testNow.Add(-24 * time.Hour),
		StartTime: testNow.Add(-time.Minute), EndTime: testNow.Add(4 * time.Hour),
	})

	recon.Run()
	assert.Equal(t, db.StatusActive, store.reservations["PAID0001"].Status)

	recon.now = func() time.Time { return testNow.Add(5 * time.Hour) }
	recon.Run()
	assert.Equal(t, db.StatusCompleted, store.reservations["PAID0001"].Status)
	assert.Equal(t, 2, notifier.count())
}

func TestReconcilerSendsPickupReminderOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "SOON0001", CarID: 1, UserID: 7, Status: db.StatusPaid,
		CreatedAt: testNow.Add(-24 * time.Hour),
		StartTime: testNow.Add(booking.PickupReminderLead),
		EndTime:   testNow.Add(booking.PickupReminderLead + 24*time.Hour),
	})

	recon.Run()
	require.True(t, store.reservations["SOON0001"].PickupReminderSent)
	assert.Equal(t, 1, notifier.count())

	recon.Run()
	assert.Equal(t, 1, notifier.count())
}

func TestReconcilerRetriesFailedReminder(t *testing.T) {
	notifier := &fakeNotifier{fail: true}
	store, recon := newReconcilerFixture(notifier)
	store.add(db.Reservation{
		Code: "RETURN01", CarID: 1, UserID: 7, Status: db.StatusActive,
		CreatedAt: testNow.Add(-24 * time.Hour),
		StartTime: testNow.Add(-23 * time.Hour),
		EndTime:   testNow.Add(booking.ReturnReminderLead),
	})

	recon.Run()
	assert.False(t, store.reservations["RETURN01"].ReturnReminderSent)
	assert.Equal(t, 0, notifier.count())

	// Delivery recovers while the end still falls in the match window.
	notifier.fail = false
	recon.Run()
	assert.True(t, store.reservations["RETURN01"].ReturnReminderSent)
	assert.Equal(t, 1, notifier.count())
}
