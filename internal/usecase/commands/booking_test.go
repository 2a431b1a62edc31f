//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/usecase/commands"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookDay(t *testing.T) {
	ctx := context.Background()
	day := schedule.Date{Year: 2030, Month: time.March, Day: 5}
	perDay := catalog.Professional{
		ID:     uuid.New(),
		Name:   "Dra. Gómez",
		Active: true,
		Policy: catalog.ProfessionalPolicy{Mode: capacity.ModePerDay, DailyQuota: 2},
	}

	t.Run("concurrent bookings never exceed the quota", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddProfessional(perDay)

		var wg sync.WaitGroup
		results := make([]error, 3)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = f.bookings.BookDay(ctx, perDay.ID, day, fmt.Sprintf("p%d@example.com", i))
			}(i)
		}
		wg.Wait()

		admitted := 0
		for _, err := range results {
			if err == nil {
				admitted++
				continue
			}
			helper.RequireErrorIs(t, err, capacity.ErrCapacityExceeded)
		}
		assert.Equal(t, 2, admitted)

		d := f.store.Availability(perDay.ID, time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC))
		require.NotNil(t, d)
		assert.Equal(t, 2, d.Capacity())
		assert.Equal(t, 2, d.ReservedCount())
		assert.Len(t, f.store.DayBookings(), 2)
	})

	t.Run("remaining capacity is reported", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddProfessional(perDay)

		d, err := f.bookings.BookDay(ctx, perDay.ID, day, "  Ana@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, 1, d.Remaining())

		bookings := f.store.DayBookings()
		require.Len(t, bookings, 1)
		assert.Equal(t, "ana@example.com", bookings[0].Email)
		assert.Equal(t, d.ID(), bookings[0].DailyAvailabilityID)
	})

	t.Run("classic professionals cannot book by day", func(t *testing.T) {
		f := newFixture(t)
		classic := perDay
		classic.ID = uuid.New()
		classic.Policy.Mode = capacity.ModeClassic
		f.store.AddProfessional(classic)

		_, err := f.bookings.BookDay(ctx, classic.ID, day, "ana@example.com")
		helper.RequireErrorIs(t, err, catalog.ErrBookingModeInvalid)
	})

	t.Run("unknown professional", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.bookings.BookDay(ctx, uuid.New(), day, "ana@example.com")
		helper.RequireErrorIs(t, err, commands.ErrProfessionalNotFound)
	})

	t.Run("past day", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddProfessional(perDay)
		_, err := f.bookings.BookDay(ctx, perDay.ID, schedule.Date{Year: 2030, Month: time.February, Day: 28}, "ana@example.com")
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
	})

	t.Run("invalid email", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddProfessional(perDay)
		_, err := f.bookings.BookDay(ctx, perDay.ID, day, "not-an-email")
		helper.RequireErrorIs(t, err, waitlist.ErrInvalidEmail)
	})
}
