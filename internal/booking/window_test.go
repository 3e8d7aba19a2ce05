package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carshow/internal/db"
	apperrors "carshow/internal/errors"
)

var baseTime = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(db.RateHourly, baseTime, 3)
	require.NoError(t, err)
	assert.Equal(t, baseTime, w.Start)
	assert.Equal(t, baseTime.Add(3*time.Hour), w.End)

	w, err = NewWindow(db.RateDaily, baseTime, 2)
	require.NoError(t, err)
	assert.Equal(t, baseTime.AddDate(0, 0, 2), w.End)

	w, err = NewWindow(db.RateWeekly, baseTime, 1)
	require.NoError(t, err)
	assert.Equal(t, baseTime.AddDate(0, 0, 7), w.End)
}

func TestNewWindowRejectsBadInput(t *testing.T) {
	_, err := NewWindow(db.RateHourly, baseTime, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)

	_, err = NewWindow(db.RateHourly, baseTime, -2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)

	_, err = NewWindow("monthly", baseTime, 1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
}

func TestOverlapsHalfOpen(t *testing.T) {
	w := Window{Start: baseTime, End: baseTime.Add(2 * time.Hour)}

	// Back to back windows share an endpoint but no time.
	next := Window{Start: w.End, End: w.End.Add(time.Hour)}
	assert.False(t, w.Overlaps(next))
	assert.False(t, next.Overlaps(w))

	overlapping := Window{Start: baseTime.Add(time.Hour), End: baseTime.Add(3 * time.Hour)}
	assert.True(t, w.Overlaps(overlapping))
	assert.True(t, overlapping.Overlaps(w))

	contained := Window{Start: baseTime.Add(30 * time.Minute), End: baseTime.Add(time.Hour)}
	assert.True(t, w.Overlaps(contained))
}

func TestContains(t *testing.T) {
	w := Window{Start: baseTime, End: baseTime.Add(time.Hour)}
	assert.True(t, w.Contains(baseTime))
	assert.True(t, w.Contains(baseTime.Add(59*time.Minute)))
	assert.False(t, w.Contains(w.End))
	assert.False(t, w.Contains(baseTime.Add(-time.Second)))
}

func TestDurationUnits(t *testing.T) {
	w, err := NewWindow(db.RateDaily, baseTime, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, DurationUnits(db.RateDaily, w))

	w, err = NewWindow(db.RateHourly, baseTime, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, DurationUnits(db.RateHourly, w))

	w, err = NewWindow(db.RateWeekly, baseTime, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, DurationUnits(db.RateWeekly, w))

	assert.Equal(t, 0, DurationUnits("monthly", w))
}
