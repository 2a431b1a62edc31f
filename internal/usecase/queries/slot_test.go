//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/usecase/queries"
	"slot-engine/tests/common/builder"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSlotReadStore struct {
	mock.Mock
}

func (m *MockSlotReadStore) FindSlot(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*slot.Slot)
	return s, args.Error(1)
}

func (m *MockSlotReadStore) ListSlots(ctx context.Context, q queries.SlotListQuery) ([]*slot.Slot, int, error) {
	args := m.Called(ctx, q)
	slots, _ := args.Get(0).([]*slot.Slot)
	return slots, args.Int(1), args.Error(2)
}

func (m *MockSlotReadStore) ListHolding(ctx context.Context, limit int) ([]*slot.Slot, error) {
	args := m.Called(ctx, limit)
	slots, _ := args.Get(0).([]*slot.Slot)
	return slots, args.Error(1)
}

// releaseAll pretends every HOLDING slot had an expired marker.
type releaseAll struct{ calls int }

func (r *releaseAll) OnSlotListed(_ context.Context, slots []*slot.Slot) []*slot.Slot {
	r.calls++
	out := make([]*slot.Slot, len(slots))
	for i, s := range slots {
		if s.IsHolding() {
			snap := builder.NewSlotBuilder().With(func(b *builder.SlotBuilder) {
				b.ID = s.ID()
				b.Resource = s.Resource()
				b.Start = s.Window().Start()
				b.Duration = s.Window().Duration()
				b.Status = slot.StatusAvailable
				b.HeldAt = nil
			}).MustBuild()
			out[i] = snap
			continue
		}
		out[i] = s
	}
	return out
}

var listNow = time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)

func slotAt(day, h int, status slot.Status) *slot.Slot {
	return builder.NewSlotBuilder().
		WithWindow(time.Date(2030, 3, day, h, 0, 0, 0, time.UTC), time.Hour).
		WithStatus(status).
		MustBuild()
}

func TestListSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and pagination flags", func(t *testing.T) {
		store := new(MockSlotReadStore)
		expiry := &releaseAll{}
		q := queries.NewSlotQueries(store, expiry, time.UTC, clock.NewMockClock(listNow))

		page := []*slot.Slot{slotAt(4, 9, slot.StatusAvailable), slotAt(4, 10, slot.StatusHolding)}
		store.On("ListSlots", ctx, queries.SlotListQuery{From: listNow, Limit: 20, Offset: 20}).
			Return(page, 45, nil).Once()

		got, err := q.ListSlots(ctx, queries.SlotFilter{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 45, got.Total)
		assert.Equal(t, 2, got.Page)
		assert.Equal(t, 20, got.Limit)
		assert.True(t, got.HasNext)
		assert.True(t, got.HasPrev)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "available", got.Items[1].Status, "stale hold is shown as available")
		assert.Equal(t, 1, expiry.calls)
		store.AssertExpectations(t)
	})

	t.Run("limit is capped and date bounds the range", func(t *testing.T) {
		store := new(MockSlotReadStore)
		q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))
		day := schedule.Date{Year: 2030, Month: time.March, Day: 4}
		fieldID := uuid.New()

		store.On("ListSlots", ctx, queries.SlotListQuery{
			From:       time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
			To:         time.Date(2030, 3, 5, 0, 0, 0, 0, time.UTC),
			Category:   catalog.CategorySports,
			ResourceID: fieldID,
			Limit:      50,
		}).Return(nil, 0, nil).Once()

		got, err := q.ListSlots(ctx, queries.SlotFilter{
			Date:       &day,
			Category:   catalog.CategorySports,
			ResourceID: fieldID,
			Limit:      500,
		})
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.False(t, got.HasNext)
		assert.False(t, got.HasPrev)
		store.AssertExpectations(t)
	})

	t.Run("status filter drops slots that changed under lazy expiry", func(t *testing.T) {
		store := new(MockSlotReadStore)
		q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))

		store.On("ListSlots", ctx, mock.MatchedBy(func(lq queries.SlotListQuery) bool {
			return lq.Status == slot.StatusHolding
		})).Return([]*slot.Slot{slotAt(4, 9, slot.StatusHolding)}, 1, nil).Once()

		got, err := q.ListSlots(ctx, queries.SlotFilter{Status: slot.StatusHolding})
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Zero(t, got.Total)
	})

	t.Run("total and has_next exclude slots dropped from the page", func(t *testing.T) {
		store := new(MockSlotReadStore)
		q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))

		store.On("ListSlots", ctx, queries.SlotListQuery{From: listNow, Status: slot.StatusHolding, Limit: 2}).
			Return([]*slot.Slot{slotAt(4, 9, slot.StatusHolding), slotAt(4, 10, slot.StatusHolding)}, 3, nil).Once()

		got, err := q.ListSlots(ctx, queries.SlotFilter{Status: slot.StatusHolding, Limit: 2})
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Equal(t, 1, got.Total)
		assert.False(t, got.HasNext)
		store.AssertExpectations(t)
	})

	t.Run("unknown filters are rejected", func(t *testing.T) {
		q := queries.NewSlotQueries(new(MockSlotReadStore), nil, time.UTC, clock.NewMockClock(listNow))

		_, err := q.ListSlots(ctx, queries.SlotFilter{Category: "music"})
		helper.RequireErrorIs(t, err, queries.ErrInvalidFilter)

		_, err = q.ListSlots(ctx, queries.SlotFilter{Status: "gone"})
		helper.RequireErrorIs(t, err, queries.ErrInvalidFilter)
	})
}

func TestGetSlot(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store := new(MockSlotReadStore)
		q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))
		s := slotAt(4, 9, slot.StatusReserved)
		store.On("FindSlot", ctx, s.ID()).Return(s, nil).Once()

		got, err := q.GetSlot(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, s.ID(), got.ID)
		assert.Equal(t, "reserved", got.Status)
		assert.Equal(t, "ABCD1234", got.ReservationCode)
		assert.Equal(t, "deportes", got.Category)
		require.NotNil(t, got.FieldID)
		assert.Nil(t, got.ServiceID)
	})

	t.Run("not found", func(t *testing.T) {
		store := new(MockSlotReadStore)
		q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))
		id := uuid.New()
		store.On("FindSlot", ctx, id).
			Return(nil, infra.WrapRepoErr(nil, infra.KindNotFound, "slot not found", nil)).Once()

		_, err := q.GetSlot(ctx, id)
		helper.RequireErrorIs(t, err, queries.ErrSlotNotFound)
	})
}

func TestWeekSummary(t *testing.T) {
	ctx := context.Background()
	store := new(MockSlotReadStore)
	q := queries.NewSlotQueries(store, &releaseAll{}, time.UTC, clock.NewMockClock(listNow))

	store.On("ListSlots", ctx, queries.SlotListQuery{
		From: time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC),
	}).Return([]*slot.Slot{
		slotAt(4, 9, slot.StatusAvailable),
		slotAt(4, 10, slot.StatusHolding),
		slotAt(6, 9, slot.StatusReserved),
		slotAt(10, 18, slot.StatusBlocked),
	}, 4, nil).Once()

	got, err := q.WeekSummary(ctx, schedule.Date{Year: 2030, Month: time.March, Day: 7}, queries.SlotFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2030-03-04", got.WeekStart.String())
	assert.Equal(t, "2030-03-10", got.WeekEnd.String())
	assert.Equal(t, 4, got.Total)
	require.Len(t, got.Days, 7)

	assert.Len(t, got.Days[0].Slots, 2)
	assert.Equal(t, 2, got.Days[0].Counts["available"])
	assert.Equal(t, 0, got.Days[0].Counts["holding"])
	assert.Empty(t, got.Days[1].Slots)
	assert.Equal(t, 1, got.Days[2].Counts["reserved"])
	assert.Equal(t, 1, got.Days[6].Counts["blocked"])
}
