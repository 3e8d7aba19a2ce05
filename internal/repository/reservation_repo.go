package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"carshow/internal/booking"
	"carshow/internal/db"
	"carshow/internal/entities"
	apperrors "carshow/internal/errors"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

const reservationColumns = `id, code, car_id, user_id, rate_type, start_time, end_time,
	status, total_price_cents, amount_paid_cents, payment_reference,
	pickup_reminder_sent, return_reminder_sent, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(&res.ID, &res.Code, &res.CarID, &res.UserID, &res.RateType,
		&res.StartTime, &res.EndTime, &res.Status, &res.TotalPriceCents,
		&res.AmountPaidCents, &res.PaymentReference,
		&res.PickupReminderSent, &res.ReturnReminderSent, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning reservation: %w", err)
	}
	return &res, nil
}

// CountOverlapping counts the live reservations for a car whose window
// overlaps w. Same predicate as booking.OverlappingCount, expressed in SQL.
func (r *ReservationRepository) CountOverlapping(carID int, w booking.Window) (int, error) {
	var count int
	err := r.DB.QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE car_id = $1
		  AND status = ANY($2)
		  AND start_time < $4
		  AND end_time > $3`,
		carID, pq.Array(db.LiveStatuses), w.Start, w.End).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting overlapping reservations: %w", err)
	}
	return count, nil
}

// CreateReservation inserts a booking atomically: the car row is locked
// exclusively, the live-overlap count is evaluated under that lock, and the
// insert happens in the same transaction. Two concurrent requests for the
// last unit serialize here; the loser gets ErrNoUnitsAvailable with no write.
func (r *ReservationRepository) CreateReservation(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting booking transaction: %w", err)
	}
	defer tx.Rollback()

	var totalUnits int
	err = tx.QueryRow(`SELECT total_units FROM cars WHERE id = $1 FOR UPDATE`, res.CarID).Scan(&totalUnits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error locking car %d: %w", res.CarID, err)
	}

	var live int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE car_id = $1
		  AND status = ANY($2)
		  AND start_time < $4
		  AND end_time > $3`,
		res.CarID, pq.Array(db.LiveStatuses), res.StartTime, res.EndTime).Scan(&live)
	if err != nil {
		return fmt.Errorf("error counting overlapping reservations: %w", err)
	}
	if booking.AvailableUnits(totalUnits, live) == 0 {
		return apperrors.ErrNoUnitsAvailable
	}

	err = tx.QueryRow(`
		INSERT INTO reservations
			(code, car_id, user_id, rate_type, start_time, end_time, status,
			 total_price_cents, amount_paid_cents, payment_reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		res.Code, res.CarID, res.UserID, res.RateType, res.StartTime, res.EndTime,
		res.Status, res.TotalPriceCents, res.AmountPaidCents, res.PaymentReference,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return tx.Commit()
}

// UpdateReservation rewrites car, rate type, window, price and amount paid
// for an existing reservation. Availability for the (possibly new) car is
// re-checked under the car lock, excluding the reservation itself.
func (r *ReservationRepository) UpdateReservation(res *db.Reservation) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("error starting edit transaction: %w", err)
	}
	defer tx.Rollback()

	var totalUnits int
	err = tx.QueryRow(`SELECT total_units FROM cars WHERE id = $1 FOR UPDATE`, res.CarID).Scan(&totalUnits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error locking car %d: %w", res.CarID, err)
	}

	var live int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM reservations
		WHERE car_id = $1
		  AND id <> $2
		  AND status = ANY($3)
		  AND start_time < $5
		  AND end_time > $4`,
		res.CarID, res.ID, pq.Array(db.LiveStatuses), res.StartTime, res.EndTime).Scan(&live)
	if err != nil {
		return fmt.Errorf("error counting overlapping reservations: %w", err)
	}
	if booking.IsLive(res.Status) && booking.AvailableUnits(totalUnits, live) == 0 {
		return apperrors.ErrNoUnitsAvailable
	}

	result, err := tx.Exec(`
		UPDATE reservations
		SET car_id = $2, rate_type = $3, start_time = $4, end_time = $5,
			total_price_cents = $6, amount_paid_cents = $7, updated_at = NOW()
		WHERE id = $1`,
		res.ID, res.CarID, res.RateType, res.StartTime, res.EndTime,
		res.TotalPriceCents, res.AmountPaidCents)
	if err != nil {
		return fmt.Errorf("error updating reservation %d: %w", res.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *ReservationRepository) GetByCode(code string) (*db.Reservation, error) {
	return scanReservation(r.DB.QueryRow(
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1`, code))
}

// GetDetailByCode returns the customer-facing view of a reservation; the
// email must match the reservation holder's.
func (r *ReservationRepository) GetDetailByCode(code, email string) (*entities.ReservationResponse, error) {
	var resp entities.ReservationResponse
	var totalCents, paidCents int64
	err := r.DB.QueryRow(`
		SELECT r.code, r.car_id, c.brand || ' ' || c.model, r.user_id, u.name, u.email,
			r.rate_type, r.start_time, r.end_time, r.status,
			r.total_price_cents, r.amount_paid_cents, r.payment_reference,
			r.created_at, r.updated_at
		FROM reservations r
		JOIN cars c ON c.id = r.car_id
		JOIN users u ON u.id = r.user_id
		WHERE r.code = $1 AND u.email = $2`, code, email).Scan(
		&resp.Code, &resp.CarID, &resp.CarLabel, &resp.UserID, &resp.UserName, &resp.UserEmail,
		&resp.RateType, &resp.StartTime, &resp.EndTime, &resp.Status,
		&totalCents, &paidCents, &resp.PaymentReference,
		&resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying reservation %s: %w", code, err)
	}
	resp.TotalPrice = float64(totalCents) / 100
	resp.AmountPaid = float64(paidCents) / 100
	return &resp, nil
}

// ConfirmPayment applies a payment to the reservation under a row lock so a
// concurrent confirmation cannot double-apply. The state machine decision
// itself lives in booking.ApplyPayment.
func (r *ReservationRepository) ConfirmPayment(code, reference string, amountCents int64, paymentType string) (*db.Reservation, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting payment transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := scanReservation(tx.QueryRow(
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1 FOR UPDATE`, code))
	if err != nil {
		return nil, err
	}
	if err := booking.ApplyPayment(res, amountCents, paymentType, reference); err != nil {
		return nil, err
	}
	_, err = tx.Exec(`
		UPDATE reservations
		SET status = $2, amount_paid_cents = $3, payment_reference = $4, updated_at = NOW()
		WHERE id = $1`,
		res.ID, res.Status, res.AmountPaidCents, res.PaymentReference)
	if err != nil {
		return nil, fmt.Errorf("error recording payment for %s: %w", code, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

// CancelReservation moves a reservation to cancelled under a row lock.
// Cancelling an already cancelled reservation reports changed=false and no
// error.
func (r *ReservationRepository) CancelReservation(code string) (*db.Reservation, bool, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("error starting cancel transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := scanReservation(tx.QueryRow(
		`SELECT `+reservationColumns+` FROM reservations WHERE code = $1 FOR UPDATE`, code))
	if err != nil {
		return nil, false, err
	}
	changed, err := booking.ApplyCancel(res)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return res, false, nil
	}
	_, err = tx.Exec(`UPDATE reservations SET status = $2, updated_at = NOW() WHERE id = $1`,
		res.ID, res.Status)
	if err != nil {
		return nil, false, fmt.Errorf("error cancelling reservation %s: %w", code, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// NoticeFor loads the contact view of a reservation used for notifications.
func (r *ReservationRepository) NoticeFor(reservationID int) (*entities.ReservationNotice, error) {
	var n entities.ReservationNotice
	err := r.DB.QueryRow(`
		SELECT r.id, r.code, r.car_id, r.user_id, c.brand || ' ' || c.model,
			u.name, u.email, u.phone_number, r.start_time, r.end_time, r.status
		FROM reservations r
		JOIN cars c ON c.id = r.car_id
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1`, reservationID).Scan(
		&n.ReservationID, &n.Code, &n.CarID, &n.UserID, &n.CarLabel,
		&n.UserName, &n.UserEmail, &n.UserPhone, &n.StartTime, &n.EndTime, &n.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error loading notice for reservation %d: %w", reservationID, err)
	}
	return &n, nil
}

// GetUser returns a user by id; booking requests reference users that must
// already exist.
func (r *ReservationRepository) GetUser(id int) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRow(`SELECT id, name, email, phone_number FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PhoneNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying user %d: %w", id, err)
	}
	return &u, nil
}
