package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

func pendingReservation(totalCents int64) *db.Reservation {
	return &db.Reservation{
		Code:            "AB12CD34",
		Status:          db.StatusPending,
		TotalPriceCents: totalCents,
	}
}

func TestRequiredCents(t *testing.T) {
	res := pendingReservation(999)

	required, err := RequiredCents(res, PaymentHalf)
	require.NoError(t, err)
	assert.Equal(t, int64(500), required)

	required, err = RequiredCents(res, PaymentFull)
	require.NoError(t, err)
	assert.Equal(t, int64(999), required)

	// After a half payment the full payment is the balance, not the total.
	require.NoError(t, ApplyPayment(res, 500, PaymentHalf, "ref-1"))
	required, err = RequiredCents(res, PaymentFull)
	require.NoError(t, err)
	assert.Equal(t, int64(499), required)

	_, err = RequiredCents(res, PaymentHalf)
	assert.ErrorIs(t, err, ErrPaymentNotAllowed)

	_, err = RequiredCents(res, "quarter")
	assert.ErrorIs(t, err, ErrPaymentNotAllowed)
}

func TestApplyPaymentFullFromPending(t *testing.T) {
	res := pendingReservation(1000)
	require.NoError(t, ApplyPayment(res, 1000, PaymentFull, "sess_1"))
	assert.Equal(t, db.StatusPaid, res.Status)
	assert.Equal(t, int64(1000), res.AmountPaidCents)
	assert.Equal(t, "sess_1", res.PaymentReference)
}

func TestApplyPaymentHalfThenFull(t *testing.T) {
	res := pendingReservation(999)

	require.NoError(t, ApplyPayment(res, 500, PaymentHalf, "sess_1"))
	assert.Equal(t, db.StatusPartial, res.Status)
	assert.Equal(t, int64(500), res.AmountPaidCents)

	require.NoError(t, ApplyPayment(res, 499, PaymentFull, "sess_2"))
	assert.Equal(t, db.StatusPaid, res.Status)
	assert.Equal(t, int64(999), res.AmountPaidCents)
	assert.Equal(t, "sess_2", res.PaymentReference)
}

func TestApplyPaymentAmountMismatchLeavesReservationUnchanged(t *testing.T) {
	res := pendingReservation(1000)
	err := ApplyPayment(res, 999, PaymentFull, "sess_1")
	assert.ErrorIs(t, err, apperrors.ErrAmountMismatch)
	assert.Equal(t, db.StatusPending, res.Status)
	assert.Equal(t, int64(0), res.AmountPaidCents)
	assert.Empty(t, res.PaymentReference)
}

func TestApplyPaymentDisallowedStatuses(t *testing.T) {
	for _, status := range []string{db.StatusPaid, db.StatusActive, db.StatusCompleted, db.StatusCancelled} {
		res := pendingReservation(1000)
		res.Status = status
		res.AmountPaidCents = AmountPaidFor(status, 1000)
		err := ApplyPayment(res, 1000, PaymentFull, "sess_1")
		assert.ErrorIs(t, err, ErrPaymentNotAllowed, status)
	}

	// Half payments only open from pending.
	res := pendingReservation(1000)
	res.Status = db.StatusPartial
	res.AmountPaidCents = 500
	err := ApplyPayment(res, 500, PaymentHalf, "sess_2")
	assert.ErrorIs(t, err, ErrPaymentNotAllowed)
}

func TestApplyCancel(t *testing.T) {
	res := pendingReservation(1000)
	changed, err := ApplyCancel(res)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, db.StatusCancelled, res.Status)

	// Cancelling again is a quiet no-op.
	changed, err = ApplyCancel(res)
	require.NoError(t, err)
	assert.False(t, changed)

	res.Status = db.StatusCompleted
	_, err = ApplyCancel(res)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestValidInitialStatus(t *testing.T) {
	assert.True(t, ValidInitialStatus(db.StatusPending))
	assert.True(t, ValidInitialStatus(db.StatusPartial))
	assert.True(t, ValidInitialStatus(db.StatusPaid))
	assert.False(t, ValidInitialStatus(db.StatusActive))
	assert.False(t, ValidInitialStatus(db.StatusCancelled))
	assert.False(t, ValidInitialStatus(""))
}
