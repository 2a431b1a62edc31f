//go:build unit

package commands_test

import (
	"context"
	"testing"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/usecase/commands"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurrence(t *testing.T, from, to, startTime, endTime string, duration int, weekdays ...int) schedule.Recurrence {
	t.Helper()
	start, err := schedule.ParseDate(from)
	require.NoError(t, err)
	end, err := schedule.ParseDate(to)
	require.NoError(t, err)
	st, err := schedule.ParseTimeOfDay(startTime)
	require.NoError(t, err)
	et, err := schedule.ParseTimeOfDay(endTime)
	require.NoError(t, err)
	return schedule.Recurrence{
		StartDate:   start,
		EndDate:     end,
		StartTime:   st,
		EndTime:     et,
		DurationMin: duration,
		Weekdays:    weekdays,
	}
}

func TestGenerateBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("rerun skips what already exists", func(t *testing.T) {
		f := newFixture(t)
		in := commands.GenerateInput{
			Resource:   fieldRef(),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-04", "09:00", "12:00", 60, 0),
		}

		res, err := f.generator.GenerateBulk(ctx, fieldOwner, in)
		require.NoError(t, err)
		assert.Equal(t, commands.GenerateResult{Created: 3, Skipped: 0}, res)
		assert.Len(t, f.store.Slots(), 3)
		assert.Equal(t, []slot.ResourceKey{fieldRef().Key()}, f.store.Locks)

		res, err = f.generator.GenerateBulk(ctx, fieldOwner, in)
		require.NoError(t, err)
		assert.Equal(t, commands.GenerateResult{Created: 0, Skipped: 3}, res)

		shifted := in
		shifted.Recurrence = recurrence(t, "2030-03-04", "2030-03-04", "10:00", "13:00", 60, 0)
		res, err = f.generator.GenerateBulk(ctx, fieldOwner, shifted)
		require.NoError(t, err)
		assert.Equal(t, commands.GenerateResult{Created: 1, Skipped: 2}, res)

		slots := f.store.Slots()
		require.Len(t, slots, 4)
		for i, s := range slots {
			assert.Equal(t, monday(9+i, 0), s.Window().Start())
			assert.Equal(t, slot.StatusAvailable, s.Status())
		}
	})

	t.Run("blocked slots do not cause skips", func(t *testing.T) {
		f := newFixture(t)
		f.seedSlot(t, 10, slot.StatusBlocked)

		res, err := f.generator.GenerateBulk(ctx, fieldOwner, commands.GenerateInput{
			Resource:   fieldRef(),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-04", "09:00", "12:00", 60, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Created)
	})

	t.Run("fields need an explicit weekday filter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.generator.GenerateBulk(ctx, fieldOwner, commands.GenerateInput{
			Resource:   fieldRef(),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-10", "09:00", "12:00", 60),
		})
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
		assert.Empty(t, f.store.Slots())
	})

	t.Run("professionals default to the working week", func(t *testing.T) {
		f := newFixture(t)
		profScope := access.Admin("lic@perez.test", nil, nil, []uuid.UUID{profID})

		res, err := f.generator.GenerateBulk(ctx, profScope, commands.GenerateInput{
			Resource:   slot.ProfessionalService(profID, consult.ID),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-10", "09:00", "11:00", 0),
		})
		require.NoError(t, err)
		assert.Equal(t, commands.GenerateResult{Created: 10}, res)
		for _, s := range f.store.Slots() {
			assert.NotEqual(t, 5, schedule.MondayIndex(s.Window().Start().Weekday()))
			assert.NotEqual(t, 6, schedule.MondayIndex(s.Window().Start().Weekday()))
		}
	})

	t.Run("range longer than the cap", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.generator.GenerateBulk(ctx, fieldOwner, commands.GenerateInput{
			Resource:   fieldRef(),
			Recurrence: recurrence(t, "2030-03-04", "2030-07-04", "09:00", "12:00", 60, 0),
		})
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
	})

	t.Run("duration must match the service", func(t *testing.T) {
		f := newFixture(t)
		centerOwner := access.Admin("salon@center.test", nil, []uuid.UUID{centerID}, nil)
		_, err := f.generator.GenerateBulk(ctx, centerOwner, commands.GenerateInput{
			Resource:   slot.ServiceAt(haircut.ID, centerID),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-04", "09:00", "12:00", 60),
		})
		helper.RequireErrorIs(t, err, catalog.ErrDurationMismatch)
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
	})

	t.Run("caller must manage the resource", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.generator.GenerateBulk(ctx, stranger, commands.GenerateInput{
			Resource:   fieldRef(),
			Recurrence: recurrence(t, "2030-03-04", "2030-03-04", "09:00", "12:00", 60, 0),
		})
		helper.RequireErrorIs(t, err, access.ErrForbidden)
		assert.Empty(t, f.store.Slots())
	})
}
