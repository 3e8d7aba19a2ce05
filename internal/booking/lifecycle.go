package booking

import (
	"errors"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

// Payment types accepted by payment confirmation.
const (
	PaymentFull = "full"
	PaymentHalf = "half"
)

var (
	// ErrPaymentNotAllowed is returned when a reservation's status admits no
	// payment transition.
	ErrPaymentNotAllowed = errors.New("reservation status does not allow payment")
	// ErrAlreadyCompleted is returned when cancelling a completed reservation.
	ErrAlreadyCompleted = errors.New("completed reservations cannot be cancelled")
)

// RequiredCents returns the exact amount a payment of the given type must
// carry for a reservation in its current status: the outstanding balance for
// a full payment, the rounded-up half of the total for a half payment.
func RequiredCents(res *db.Reservation, paymentType string) (int64, error) {
	switch paymentType {
	case PaymentFull:
		if res.Status != db.StatusPending && res.Status != db.StatusPartial {
			return 0, ErrPaymentNotAllowed
		}
		return res.TotalPriceCents - res.AmountPaidCents, nil
	case PaymentHalf:
		if res.Status != db.StatusPending {
			return 0, ErrPaymentNotAllowed
		}
		return HalfCents(res.TotalPriceCents), nil
	}
	return 0, ErrPaymentNotAllowed
}

// ApplyPayment advances the state machine for a payment confirmation:
// pending|partial -> paid for a full payment, or pending -> partial for a
// half payment. The amount must match RequiredCents exactly; on mismatch the
// reservation is left unchanged.
func ApplyPayment(res *db.Reservation, amountCents int64, paymentType, reference string) error {
	required, err := RequiredCents(res, paymentType)
	if err != nil {
		return err
	}
	if amountCents != required {
		return apperrors.ErrAmountMismatch
	}
	switch paymentType {
	case PaymentFull:
		res.Status = db.StatusPaid
		res.AmountPaidCents = res.TotalPriceCents
	case PaymentHalf:
		res.Status = db.StatusPartial
		res.AmountPaidCents = res.AmountPaidCents + required
	}
	res.PaymentReference = reference
	return nil
}

// ApplyCancel moves a reservation to cancelled. Cancelling an already
// cancelled reservation is a no-op, reported through the first return value.
func ApplyCancel(res *db.Reservation) (changed bool, err error) {
	switch res.Status {
	case db.StatusCancelled:
		return false, nil
	case db.StatusCompleted:
		return false, ErrAlreadyCompleted
	}
	res.Status = db.StatusCancelled
	return true, nil
}

// ValidInitialStatus reports whether a booking request may open in the given
// status. Reservations start pending unless payment was taken up front.
func ValidInitialStatus(status string) bool {
	switch status {
	case db.StatusPending, db.StatusPartial, db.StatusPaid:
		return true
	}
	return false
}
