package db

import "time"

// Rate types a reservation can be billed at.
const (
	RateHourly = "hourly"
	RateDaily  = "daily"
	RateWeekly = "weekly"
)

// Reservation lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusPartial   = "partial"
	StatusPaid      = "paid"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// LiveStatuses hold a unit and count against car capacity.
var LiveStatuses = []string{StatusPending, StatusPartial, StatusPaid, StatusActive}

// CarTypes offered in the fleet.
var CarTypes = []string{"sedan", "suv", "sports", "van"}

// Car is one rentable model. TotalUnits is a fixed capacity fact; it is never
// decremented by bookings. Availability is always derived from the live
// reservation set.
type Car struct {
	ID              int
	Brand           string
	Model           string
	Year            int
	CarType         string
	TotalUnits      int
	RateHourlyCents int64
	RateDailyCents  int64
	RateWeeklyCents int64
	Features        string
	CreatedAt       time.Time
}

// Label returns the display name used in customer messages.
func (c *Car) Label() string {
	return c.Brand + " " + c.Model
}

type User struct {
	ID          int
	Name        string
	Email       string
	PhoneNumber string
}

// Reservation books one unit of a car for the half-open window
// [StartTime, EndTime).
type Reservation struct {
	ID                 int
	Code               string
	CarID              int
	UserID             int
	RateType           string
	StartTime          time.Time
	EndTime            time.Time
	Status             string
	TotalPriceCents    int64
	AmountPaidCents    int64
	PaymentReference   string
	PickupReminderSent bool
	ReturnReminderSent bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
