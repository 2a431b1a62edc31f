//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/usecase/queries"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCapacityReadStore struct {
	mock.Mock
}

func (m *MockCapacityReadStore) FindProfessional(ctx context.Context, id uuid.UUID) (*catalog.Professional, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*catalog.Professional)
	return p, args.Error(1)
}

func (m *MockCapacityReadStore) ListDays(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*capacity.DailyAvailability, error) {
	args := m.Called(ctx, professionalID, from, to)
	days, _ := args.Get(0).([]*capacity.DailyAvailability)
	return days, args.Error(1)
}

func march(day int) schedule.Date {
	return schedule.Date{Year: 2030, Month: time.March, Day: day}
}

func TestDayCalendar(t *testing.T) {
	ctx := context.Background()
	prof := &catalog.Professional{
		ID:     uuid.New(),
		Name:   "Dra. Gómez",
		Active: true,
		Policy: catalog.ProfessionalPolicy{Mode: capacity.ModePerDay, DailyQuota: 4},
	}

	t.Run("stored rows win, missing days default to the quota", func(t *testing.T) {
		store := new(MockCapacityReadStore)
		q := queries.NewCapacityQueries(store)

		stored, err := capacity.Restore(uuid.New(), prof.ID, time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC), 3, 2)
		require.NoError(t, err)
		store.On("FindProfessional", ctx, prof.ID).Return(prof, nil).Once()
		store.On("ListDays", ctx, prof.ID,
			time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2030, 3, 6, 0, 0, 0, 0, time.UTC),
		).Return([]*capacity.DailyAvailability{stored}, nil).Once()

		got, err := q.DayCalendar(ctx, prof.ID, march(4), march(6))
		require.NoError(t, err)
		assert.Equal(t, 4, got.DailyQuota)
		assert.Equal(t, []queries.DayCapacityView{
			{Date: march(4), Capacity: 4, Reserved: 0, Remaining: 4},
			{Date: march(5), Capacity: 3, Reserved: 2, Remaining: 1},
			{Date: march(6), Capacity: 4, Reserved: 0, Remaining: 4},
		}, got.Days)
		store.AssertExpectations(t)
	})

	t.Run("range validation", func(t *testing.T) {
		q := queries.NewCapacityQueries(new(MockCapacityReadStore))

		_, err := q.DayCalendar(ctx, prof.ID, march(6), march(4))
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)

		_, err = q.DayCalendar(ctx, prof.ID, march(1), schedule.Date{Year: 2030, Month: time.April, Day: 1})
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
	})

	t.Run("classic professionals have no day calendar", func(t *testing.T) {
		store := new(MockCapacityReadStore)
		q := queries.NewCapacityQueries(store)
		classic := *prof
		classic.Policy.Mode = capacity.ModeClassic
		store.On("FindProfessional", ctx, classic.ID).Return(&classic, nil).Once()

		_, err := q.DayCalendar(ctx, classic.ID, march(4), march(4))
		helper.RequireErrorIs(t, err, catalog.ErrBookingModeInvalid)
	})

	t.Run("unknown professional", func(t *testing.T) {
		store := new(MockCapacityReadStore)
		q := queries.NewCapacityQueries(store)
		id := uuid.New()
		store.On("FindProfessional", ctx, id).
			Return(nil, infra.WrapRepoErr(nil, infra.KindNotFound, "professional not found", nil)).Once()

		_, err := q.DayCalendar(ctx, id, march(4), march(4))
		helper.RequireErrorIs(t, err, queries.ErrProfessionalNotFound)
	})
}
