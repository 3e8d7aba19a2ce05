package entities

import "time"

type CreateReservationRequest struct {
	CarID         int       `json:"car_id"`
	UserID        int       `json:"user_id"`
	RateType      string    `json:"rate_type"`
	Start         time.Time `json:"start"`
	Duration      int       `json:"duration"`
	InitialStatus string    `json:"initial_status,omitempty"`
}

type CreateReservationResponse struct {
	ReservationCode string  `json:"reservation_code"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"`
	Message         string  `json:"message"`
}

// UpdateReservationRequest edits the car, rate type or window of an existing
// reservation. Zero values leave the corresponding field unchanged except
// Duration, which is required whenever the window moves.
type UpdateReservationRequest struct {
	CarID    int       `json:"car_id,omitempty"`
	RateType string    `json:"rate_type,omitempty"`
	Start    time.Time `json:"start,omitempty"`
	Duration int       `json:"duration,omitempty"`
}

type ReservationResponse struct {
	Code               string    `json:"code"`
	CarID              int       `json:"car_id"`
	CarLabel           string    `json:"car"`
	UserID             int       `json:"user_id"`
	UserName           string    `json:"user_name"`
	UserEmail          string    `json:"user_email"`
	RateType           string    `json:"rate_type"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	Status             string    `json:"status"`
	TotalPrice         float64   `json:"total_price"`
	AmountPaid         float64   `json:"amount_paid"`
	PaymentReference   string    `json:"payment_reference,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ReservationsList struct {
	Total        int                   `json:"total"`
	Reservations []ReservationResponse `json:"reservations"`
}

// ReservationNotice carries the contact details a sweep or state transition
// needs to notify the reservation holder.
type ReservationNotice struct {
	ReservationID int
	Code          string
	CarID         int
	UserID        int
	CarLabel      string
	UserName      string
	UserEmail     string
	UserPhone     string
	StartTime     time.Time
	EndTime       time.Time
	Status        string
}
