//go:build unit

package capacity_test

import (
	"testing"
	"time"

	"slot-engine/internal/domain/capacity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyAvailability(t *testing.T) {
	day := time.Date(2030, 3, 4, 15, 30, 0, 0, time.FixedZone("ART", -3*60*60))

	t.Run("admits up to capacity", func(t *testing.T) {
		d, err := capacity.NewDailyAvailability(uuid.Nil, uuid.New(), day, 2)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, d.ID())
		assert.Equal(t, time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), d.Day())

		require.NoError(t, d.Admit())
		require.NoError(t, d.Admit())
		assert.True(t, d.IsFull())
		assert.Equal(t, 0, d.Remaining())

		assert.ErrorIs(t, d.Admit(), capacity.ErrCapacityExceeded)
		assert.Equal(t, 2, d.ReservedCount())
	})

	t.Run("zero capacity admits nobody", func(t *testing.T) {
		d, err := capacity.NewDailyAvailability(uuid.Nil, uuid.New(), day, 0)
		require.NoError(t, err)
		assert.ErrorIs(t, d.Admit(), capacity.ErrCapacityExceeded)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		_, err := capacity.NewDailyAvailability(uuid.Nil, uuid.New(), day, -1)
		assert.ErrorIs(t, err, capacity.ErrInvalidCapacity)
		_, err = capacity.Restore(uuid.New(), uuid.New(), day, 1, -1)
		assert.ErrorIs(t, err, capacity.ErrInvalidCapacity)
	})

	t.Run("restored counter over capacity stays closed", func(t *testing.T) {
		d, err := capacity.Restore(uuid.New(), uuid.New(), day, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 0, d.Remaining())
		assert.ErrorIs(t, d.Admit(), capacity.ErrCapacityExceeded)
	})
}

func TestBookingMode(t *testing.T) {
	assert.True(t, capacity.ModePerDay.IsValid())
	assert.False(t, capacity.BookingMode("weekly").IsValid())
}
