// Package queue publishes reservation lifecycle events to the message broker.
package queue

import "time"

// ReservationEvent is published on every reservation lifecycle transition.
// It carries enough for downstream consumers to log, notify or feed analytics
// without querying the primary database.
type ReservationEvent struct {
	Code            string    `json:"code"`
	CarID           int       `json:"car_id"`
	CarLabel        string    `json:"car"`
	UserID          int       `json:"user_id"`
	Status          string    `json:"status"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	TotalPriceCents int64     `json:"total_price_cents"`
	OccurredAt      time.Time `json:"occurred_at"`
}
