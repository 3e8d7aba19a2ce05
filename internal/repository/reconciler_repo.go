package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"carshow/internal/booking"
	"carshow/internal/db"
	"carshow/internal/entities"
)

// ReconcilerRepository runs the reconciler sweeps. Every sweep executes in
// its own transaction and claims candidate rows with FOR UPDATE SKIP LOCKED:
// a row held by another in-flight sweep is simply omitted from this pass and
// picked up on the next period if still eligible, so concurrent reconciler
// instances never block each other and never double-transition a reservation.
type ReconcilerRepository struct {
	DB *sql.DB
}

func NewReconcilerRepository(database *sql.DB) *ReconcilerRepository {
	return &ReconcilerRepository{DB: database}
}

const noticeColumns = `r.id, r.code, r.car_id, r.user_id, c.brand || ' ' || c.model,
	u.name, u.email, u.phone_number, r.start_time, r.end_time, r.status`

func scanNotice(rows *sql.Rows) (*entities.ReservationNotice, error) {
	var n entities.ReservationNotice
	err := rows.Scan(&n.ReservationID, &n.Code, &n.CarID, &n.UserID, &n.CarLabel,
		&n.UserName, &n.UserEmail, &n.UserPhone, &n.StartTime, &n.EndTime, &n.Status)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// sweep claims every row matching cond, sets its status to newStatus and
// returns the notices for the transitioned rows. Rows that fail to scan are
// logged and skipped; one malformed record never aborts the sweep.
func (r *ReconcilerRepository) sweep(cond, newStatus string, args ...any) ([]entities.ReservationNotice, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting sweep transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + noticeColumns + `
		FROM reservations r
		JOIN cars c ON c.id = r.car_id
		JOIN users u ON u.id = r.user_id
		WHERE ` + cond + `
		FOR UPDATE OF r SKIP LOCKED`
	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting sweep candidates: %w", err)
	}

	var notices []entities.ReservationNotice
	var ids []int
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			log.Printf("Reconciler: skipping malformed reservation row: %v", err)
			continue
		}
		n.Status = newStatus
		notices = append(notices, *n)
		ids = append(ids, n.ReservationID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating sweep candidates: %w", err)
	}
	rows.Close()

	if len(ids) == 0 {
		return nil, tx.Commit()
	}
	_, err = tx.Exec(`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`,
		newStatus, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error updating sweep statuses: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return notices, nil
}

// CancelStalePending cancels pending reservations created more than an hour
// ago whose rental has not yet begun. A pending reservation whose window has
// already started is left alone (see booking.IsStalePending).
func (r *ReconcilerRepository) CancelStalePending(now time.Time) ([]entities.ReservationNotice, error) {
	return r.sweep(
		`r.status = 'pending' AND r.created_at < $1 AND r.start_time > $2`,
		db.StatusCancelled,
		now.Add(-booking.PendingTTL), now)
}

// CancelStalePartial cancels half-paid reservations whose rental start has
// arrived without full payment.
func (r *ReconcilerRepository) CancelStalePartial(now time.Time) ([]entities.ReservationNotice, error) {
	return r.sweep(
		`r.status = 'partial' AND r.start_time <= $1`,
		db.StatusCancelled,
		now)
}

// ActivateDue activates paid reservations whose window contains now.
func (r *ReconcilerRepository) ActivateDue(now time.Time) ([]entities.ReservationNotice, error) {
	return r.sweep(
		`r.status = 'paid' AND r.start_time <= $1 AND r.end_time > $1`,
		db.StatusActive,
		now)
}

// CompleteDue completes active reservations whose window has ended.
func (r *ReconcilerRepository) CompleteDue(now time.Time) ([]entities.ReservationNotice, error) {
	return r.sweep(
		`r.status = 'active' AND r.end_time <= $1`,
		db.StatusCompleted,
		now)
}

// claimReminders locks candidate rows, invokes send for each while the row is
// held, and flags only the reservations whose send reported success. Failed
// sends stay unflagged and are retried on a later pass while the start/end
// still falls in the tolerance window.
func (r *ReconcilerRepository) claimReminders(cond, flagColumn string, send func(entities.ReservationNotice) bool, args ...any) (int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("error starting reminder transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT ` + noticeColumns + `
		FROM reservations r
		JOIN cars c ON c.id = r.car_id
		JOIN users u ON u.id = r.user_id
		WHERE ` + cond + `
		FOR UPDATE OF r SKIP LOCKED`
	rows, err := tx.Query(query, args...)
	if err != nil {
		return 0, fmt.Errorf("error selecting reminder candidates: %w", err)
	}

	var candidates []entities.ReservationNotice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			log.Printf("Reconciler: skipping malformed reminder row: %v", err)
			continue
		}
		candidates = append(candidates, *n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("error iterating reminder candidates: %w", err)
	}
	rows.Close()

	sent := 0
	for _, n := range candidates {
		if !send(n) {
			continue
		}
		_, err := tx.Exec(`UPDATE reservations SET `+flagColumn+` = TRUE, updated_at = NOW() WHERE id = $1`, n.ReservationID)
		if err != nil {
			log.Printf("Reconciler: could not flag reminder for reservation %s: %v", n.Code, err)
			continue
		}
		sent++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return sent, nil
}

// ClaimPickupReminders sends pickup reminders for paid or partial
// reservations starting within [from, to).
func (r *ReconcilerRepository) ClaimPickupReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error) {
	return r.claimReminders(
		`r.status IN ('paid', 'partial')
		  AND r.pickup_reminder_sent = FALSE
		  AND r.start_time >= $1 AND r.start_time < $2`,
		"pickup_reminder_sent", send, from, to)
}

// ClaimReturnReminders sends return reminders for active reservations ending
// within [from, to).
func (r *ReconcilerRepository) ClaimReturnReminders(from, to time.Time, send func(entities.ReservationNotice) bool) (int, error) {
	return r.claimReminders(
		`r.status = 'active'
		  AND r.return_reminder_sent = FALSE
		  AND r.end_time >= $1 AND r.end_time < $2`,
		"return_reminder_sent", send, from, to)
}
