package repository

import (
	"database/sql"
	"fmt"
	"strconv"

	"carshow/internal/entities"
	apperrors "carshow/internal/errors"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(database *sql.DB) *AdminRepository {
	return &AdminRepository{DB: database}
}

const reservationDetailQuery = `
	SELECT r.code, r.car_id, c.brand || ' ' || c.model, r.user_id, u.name, u.email,
		r.rate_type, r.start_time, r.end_time, r.status,
		r.total_price_cents, r.amount_paid_cents, r.payment_reference,
		r.created_at, r.updated_at
	FROM reservations r
	JOIN cars c ON c.id = r.car_id
	JOIN users u ON u.id = r.user_id`

func scanReservationDetail(rows *sql.Rows) (*entities.ReservationResponse, error) {
	var resp entities.ReservationResponse
	var totalCents, paidCents int64
	err := rows.Scan(&resp.Code, &resp.CarID, &resp.CarLabel, &resp.UserID, &resp.UserName,
		&resp.UserEmail, &resp.RateType, &resp.StartTime, &resp.EndTime, &resp.Status,
		&totalCents, &paidCents, &resp.PaymentReference, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	resp.TotalPrice = float64(totalCents) / 100
	resp.AmountPaid = float64(paidCents) / 100
	return &resp, nil
}

// ListReservations returns all reservations, optionally narrowed by start
// date (YYYY-MM-DD), status or car.
func (r *AdminRepository) ListReservations(date, status string, carID int) ([]entities.ReservationResponse, error) {
	query := reservationDetailQuery + ` WHERE 1=1`
	args := []any{}
	idx := 1

	if date != "" {
		query += " AND DATE(r.start_time) = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND r.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	if carID > 0 {
		query += " AND r.car_id = $" + strconv.Itoa(idx)
		args = append(args, carID)
		idx++
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	var list []entities.ReservationResponse
	for rows.Next() {
		resp, err := scanReservationDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation row: %w", err)
		}
		list = append(list, *resp)
	}
	return list, rows.Err()
}

// PaymentHistory returns paid reservations, newest payment first.
func (r *AdminRepository) PaymentHistory() ([]entities.ReservationResponse, error) {
	rows, err := r.DB.Query(reservationDetailQuery + `
		WHERE r.status = 'paid'
		ORDER BY r.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("error listing payment history: %w", err)
	}
	defer rows.Close()

	var list []entities.ReservationResponse
	for rows.Next() {
		resp, err := scanReservationDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning payment row: %w", err)
		}
		list = append(list, *resp)
	}
	return list, rows.Err()
}

// Stats aggregates the dashboard counters. Revenue sums completed rentals.
func (r *AdminRepository) Stats() (*entities.StatsResponse, error) {
	var stats entities.StatsResponse
	var revenueCents int64
	err := r.DB.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM cars),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM reservations),
			(SELECT COALESCE(SUM(total_price_cents), 0) FROM reservations WHERE status = 'completed')`,
	).Scan(&stats.TotalCars, &stats.TotalUsers, &stats.TotalReservations, &revenueCents)
	if err != nil {
		return nil, fmt.Errorf("error aggregating stats: %w", err)
	}
	stats.Revenue = float64(revenueCents) / 100
	return &stats, nil
}

// DeleteReservation removes a reservation outright. Administrative action
// only; the engine never deletes.
func (r *AdminRepository) DeleteReservation(id int) error {
	result, err := r.DB.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting reservation %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
