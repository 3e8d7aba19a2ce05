package booking

import (
	"math"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

// Quote computes the total price in cents for renting one unit of car at the
// given rate type for duration units of that rate.
func Quote(car *db.Car, rateType string, duration int) (int64, error) {
	if duration <= 0 {
		return 0, apperrors.ErrInvalidWindow
	}
	var rate int64
	switch rateType {
	case db.RateHourly:
		rate = car.RateHourlyCents
	case db.RateDaily:
		rate = car.RateDailyCents
	case db.RateWeekly:
		rate = car.RateWeeklyCents
	default:
		return 0, apperrors.ErrInvalidWindow
	}
	return rate * int64(duration), nil
}

// HalfCents is the required down payment for a partial reservation. An
// odd-cent total rounds up.
func HalfCents(totalCents int64) int64 {
	return (totalCents + 1) / 2
}

// AmountToCents converts a decimal amount to integer cents, rounding to the
// nearest cent (ties away from zero). All amount comparisons happen in cents.
func AmountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// AmountPaidFor returns the amount_paid consistent with a status: paid and
// later statuses carry the full price, partial carries the half amount, and
// everything else carries nothing.
func AmountPaidFor(status string, totalCents int64) int64 {
	switch status {
	case db.StatusPaid, db.StatusActive, db.StatusCompleted:
		return totalCents
	case db.StatusPartial:
		return HalfCents(totalCents)
	default:
		return 0
	}
}
