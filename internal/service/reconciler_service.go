package service

import (
	"log"
	"time"

	"github.com/google/uuid"

	"carshow/internal/booking"
	"carshow/internal/entities"
	"carshow/internal/queue"
)

// ReconcilerStore is the sweep surface backed by
// repository.ReconcilerRepository. Every method claims its rows with SKIP
// LOCKED, so several reconciler instances can run the same sweep safely.
type ReconcilerStore interface {
	CancelStalePending(now time.Time) ([]entities.ReservationNotice, error)
	CancelStalePartial(now time.Time) ([]entities.ReservationNotice, error)
	ActivateDue(now time.Time) ([]entities.ReservationNotice, error)
	CompleteDue(now time.Time) ([]entities.ReservationNotice, error)
	ClaimPickupReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error)
	ClaimReturnReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error)
}

// ReconcilerService advances reservation statuses on a schedule: stale
// pendings and partials get cancelled, paid reservations whose window opened
// become active, active ones whose window closed become completed, and due
// reminders go out. Each sweep is independent; one failing does not stop the
// rest.
type ReconcilerService struct {
	store    ReconcilerStore
	sender   *SenderService
	events   *queue.Publisher
	now      func() time.Time
	workerID string
}

func NewReconcilerService(store ReconcilerStore, sender *SenderService, events *queue.Publisher) *ReconcilerService {
	return &ReconcilerService{
		store:    store,
		sender:   sender,
		events:   events,
		now:      time.Now,
		workerID: uuid.NewString()[:8],
	}
}

// Run executes one full reconciler pass. Designed for cron: it never returns
// an error, only logs per-sweep outcomes.
func (s *ReconcilerService) Run() {
	now := s.now()

	stalePending := s.transition("stale pending", s.store.CancelStalePending, now)
	stalePartial := s.transition("stale partial", s.store.CancelStalePartial, now)
	activated := s.transition("activation", s.store.ActivateDue, now)
	completed := s.transition("completion", s.store.CompleteDue, now)

	pickupFrom, pickupTo := booking.PickupReminderWindow(now)
	pickups, err := s.store.ClaimPickupReminders(pickupFrom, pickupTo, s.sender.SendPickupReminder)
	if err != nil {
		log.Printf("Reconciler[%s]: pickup reminder sweep failed: %v", s.workerID, err)
	}
	returnFrom, returnTo := booking.ReturnReminderWindow(now)
	returns, err := s.store.ClaimReturnReminders(returnFrom, returnTo, s.sender.SendReturnReminder)
	if err != nil {
		log.Printf("Reconciler[%s]: return reminder sweep failed: %v", s.workerID, err)
	}

	if total := stalePending + stalePartial + activated + completed + pickups + returns; total > 0 {
		log.Printf("Reconciler[%s]: cancelled %d pending, %d partial; activated %d; completed %d; sent %d pickup and %d return reminders",
			s.workerID, stalePending, stalePartial, activated, completed, pickups, returns)
	}
}

// transition runs one status sweep and notifies the holders of every row it
// moved. The rows are already committed when notifications go out; a failed
// SMS never rolls a transition back.
func (s *ReconcilerService) transition(label string, sweep func(time.Time) ([]entities.ReservationNotice, error), now time.Time) int {
	notices, err := sweep(now)
	if err != nil {
		log.Printf("Reconciler[%s]: %s sweep failed: %v", s.workerID, label, err)
		return 0
	}
	for _, n := range notices {
		s.sender.NotifyStatus(n)
		s.sender.SendReservationEmail(n)
		s.events.Publish(queue.ReservationEvent{
			Code:       n.Code,
			CarID:      n.CarID,
			CarLabel:   n.CarLabel,
			UserID:     n.UserID,
			Status:     n.Status,
			StartTime:  n.StartTime,
			EndTime:    n.EndTime,
			OccurredAt: now,
		})
	}
	return len(notices)
}
