package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

func testCar() *db.Car {
	return &db.Car{
		ID:              1,
		Brand:           "Toyota",
		Model:           "Vios",
		TotalUnits:      3,
		RateHourlyCents: 500,
		RateDailyCents:  100000,
		RateWeeklyCents: 550000,
	}
}

func TestQuote(t *testing.T) {
	car := testCar()

	total, err := Quote(car, db.RateDaily, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(300000), total)

	total, err = Quote(car, db.RateHourly, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)

	total, err = Quote(car, db.RateWeekly, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(550000), total)
}

func TestQuoteRejectsBadInput(t *testing.T) {
	car := testCar()

	_, err := Quote(car, db.RateDaily, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)

	_, err = Quote(car, "monthly", 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
}

func TestHalfCentsRoundsUp(t *testing.T) {
	assert.Equal(t, int64(500), HalfCents(999))
	assert.Equal(t, int64(500), HalfCents(1000))
	assert.Equal(t, int64(1), HalfCents(1))
	assert.Equal(t, int64(0), HalfCents(0))
}

func TestAmountToCents(t *testing.T) {
	assert.Equal(t, int64(1000), AmountToCents(10.00))
	assert.Equal(t, int64(1000), AmountToCents(10.004))
	assert.Equal(t, int64(1001), AmountToCents(10.005))
	assert.Equal(t, int64(999), AmountToCents(9.99))
}

func TestAmountPaidFor(t *testing.T) {
	assert.Equal(t, int64(0), AmountPaidFor(db.StatusPending, 1000))
	assert.Equal(t, int64(500), AmountPaidFor(db.StatusPartial, 999))
	assert.Equal(t, int64(1000), AmountPaidFor(db.StatusPaid, 1000))
	assert.Equal(t, int64(1000), AmountPaidFor(db.StatusActive, 1000))
	assert.Equal(t, int64(1000), AmountPaidFor(db.StatusCompleted, 1000))
	assert.Equal(t, int64(0), AmountPaidFor(db.StatusCancelled, 1000))
}
