//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/usecase/commands"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceHold(t *testing.T) {
	ctx := context.Background()

	t.Run("available slot becomes holding with a marker", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)

		held, err := f.slots.PlaceHold(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, slot.StatusHolding, held.Status())
		require.NotNil(t, held.HeldAt())

		live, err := f.markers.Exists(ctx, s.ID())
		require.NoError(t, err)
		assert.True(t, live)
		assert.Equal(t, slot.StatusHolding, f.store.Slot(s.ID()).Status())
	})

	t.Run("non-available slots are refused", func(t *testing.T) {
		for _, status := range []slot.Status{slot.StatusHolding, slot.StatusReserved, slot.StatusBlocked} {
			f := newFixture(t)
			s := f.seedSlot(t, 9, status)

			_, err := f.slots.PlaceHold(ctx, s.ID())
			helper.RequireErrorIs(t, err, slot.ErrNotAvailable)
			assert.Equal(t, status, f.store.Slot(s.ID()).Status())
		}
	})

	t.Run("two concurrent holds, exactly one wins", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, results[i] = f.slots.PlaceHold(ctx, s.ID())
			}(i)
		}
		wg.Wait()

		succeeded, refused := 0, 0
		for _, err := range results {
			switch {
			case err == nil:
				succeeded++
			default:
				helper.RequireErrorIs(t, err, slot.ErrNotAvailable)
				refused++
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, refused)
	})

	t.Run("marker write failure rolls the hold back", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)
		f.markers.putErr = errCacheDown

		_, err := f.slots.PlaceHold(ctx, s.ID())
		helper.RequireErrorIs(t, err, commands.ErrHoldMarkerFailed)
		assert.Equal(t, slot.StatusAvailable, f.store.Slot(s.ID()).Status())
	})

	t.Run("stale hold is reverted and re-held", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusHolding)
		f.clock.Add(holdTTL + time.Second)

		held, err := f.slots.PlaceHold(ctx, s.ID())
		require.NoError(t, err)
		assert.Equal(t, slot.StatusHolding, held.Status())
		assert.Empty(t, f.enqueuer.Notices())
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.slots.PlaceHold(ctx, uuid.New())
		helper.RequireErrorIs(t, err, commands.ErrSlotNotFound)
	})
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	t.Run("hold then confirm then confirm again", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)

		_, err := f.slots.PlaceHold(ctx, s.ID())
		require.NoError(t, err)

		confirmed, err := f.slots.Confirm(ctx, fieldOwner, s.ID())
		require.NoError(t, err)
		assert.Equal(t, slot.StatusReserved, confirmed.Status())
		assert.Len(t, confirmed.ReservationCode(), slot.ReservationCodeLength)
		assert.Equal(t, confirmed.ReservationCode(), f.store.Slot(s.ID()).ReservationCode())

		assert.Zero(t, f.markers.removes, "a committed hold's marker is left to its TTL")

		_, err = f.slots.Confirm(ctx, fieldOwner, s.ID())
		helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)
	})

	t.Run("available slot cannot be confirmed", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)

		_, err := f.slots.Confirm(ctx, fieldOwner, s.ID())
		helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)
	})

	t.Run("expired hold is reverted and reported", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)
		sub := f.subscribeDirect(t, "ana@example.com", s.ID())

		_, err := f.slots.PlaceHold(ctx, s.ID())
		require.NoError(t, err)
		f.clock.Add(holdTTL + time.Second)

		_, err = f.slots.Confirm(ctx, fieldOwner, s.ID())
		helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)
		helper.RequireErrorIs(t, err, commands.ErrHoldExpired)

		assert.Equal(t, slot.StatusAvailable, f.store.Slot(s.ID()).Status())
		notices := f.enqueuer.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, sub.ID(), notices[0].SubscriptionID)
	})

	t.Run("caller must manage the resource", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusHolding)

		_, err := f.slots.Confirm(ctx, stranger, s.ID())
		helper.RequireErrorIs(t, err, access.ErrForbidden)

		_, err = f.slots.Confirm(ctx, access.Public(), s.ID())
		helper.RequireErrorIs(t, err, access.ErrForbidden)
		assert.Equal(t, slot.StatusHolding, f.store.Slot(s.ID()).Status())
	})
}

func TestRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("reserved slot is released and the waitlist notified once", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusReserved)
		sub := f.subscribeDirect(t, "ana@example.com", s.ID())

		released, err := f.slots.Release(ctx, fieldOwner, s.ID(), commands.ReleaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, slot.StatusAvailable, released.Status())
		assert.Empty(t, f.store.Slot(s.ID()).ReservationCode())

		notices := f.enqueuer.Notices()
		require.Len(t, notices, 1)
		assert.Equal(t, sub.ID(), notices[0].SubscriptionID)
		assert.Equal(t, "Se liberó tu turno — Cancha 1 04/03/2030 09:00", notices[0].Subject)
	})

	t.Run("a hold placed right after release keeps its marker", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusHolding)

		// Any marker cleanup by the releaser runs after a competing hold.
		var rehold error
		f.markers.beforeRemove = func() {
			_, rehold = f.slots.PlaceHold(ctx, s.ID())
		}

		released, err := f.slots.Release(ctx, fieldOwner, s.ID(), commands.ReleaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, slot.StatusAvailable, released.Status())
		assert.Zero(t, f.markers.removes)

		if f.markers.beforeRemove != nil {
			_, rehold = f.slots.PlaceHold(ctx, s.ID())
		}
		require.NoError(t, rehold)

		out := f.expiry.OnSlotListed(ctx, []*slot.Slot{f.store.Slot(s.ID())})
		require.Len(t, out, 1)
		assert.Equal(t, slot.StatusHolding, out[0].Status())
		assert.Equal(t, slot.StatusHolding, f.store.Slot(s.ID()).Status())
	})

	t.Run("releasing an available slot is a no-op", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)
		f.subscribeDirect(t, "ana@example.com", s.ID())
		commits := f.store.Commits

		released, err := f.slots.Release(ctx, fieldOwner, s.ID(), commands.ReleaseOptions{})
		require.NoError(t, err)
		assert.Equal(t, slot.StatusAvailable, released.Status())
		assert.Empty(t, f.enqueuer.Notices())
		assert.Equal(t, s.UpdatedAt(), f.store.Slot(s.ID()).UpdatedAt())
		assert.Equal(t, commits+1, f.store.Commits)
	})

	t.Run("blocked slot needs allow_blocked", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusBlocked)

		_, err := f.slots.Release(ctx, fieldOwner, s.ID(), commands.ReleaseOptions{})
		helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)

		reopened, err := f.slots.Release(ctx, fieldOwner, s.ID(), commands.ReleaseOptions{AllowBlocked: true})
		require.NoError(t, err)
		assert.Equal(t, slot.StatusAvailable, reopened.Status())
		assert.Contains(t, f.store.Locks, fieldRef().Key())
		assert.Empty(t, f.enqueuer.Notices(), "reopening a blocked slot does not wake the waitlist")
	})

	t.Run("reopen refuses to overlap an occupying slot", func(t *testing.T) {
		f := newFixture(t)
		blocked := f.seedSlot(t, 9, slot.StatusBlocked)
		f.seedSlot(t, 9, slot.StatusAvailable)

		_, err := f.slots.Release(ctx, fieldOwner, blocked.ID(), commands.ReleaseOptions{AllowBlocked: true})
		helper.RequireErrorIs(t, err, slot.ErrOverlap)
		assert.Equal(t, slot.StatusBlocked, f.store.Slot(blocked.ID()).Status())
	})
}

func TestBlock(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	s := f.seedSlot(t, 9, slot.StatusAvailable)

	blocked, err := f.slots.Block(ctx, fieldOwner, s.ID())
	require.NoError(t, err)
	assert.Equal(t, slot.StatusBlocked, blocked.Status())

	_, err = f.slots.Block(ctx, fieldOwner, s.ID())
	helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)

	reserved := f.seedSlot(t, 11, slot.StatusReserved)
	_, err = f.slots.Block(ctx, fieldOwner, reserved.ID())
	helper.RequireErrorIs(t, err, slot.ErrInvalidTransition)
}

func TestCreateSlot(t *testing.T) {
	ctx := context.Background()
	centerOwner := access.Admin("salon@center.test", nil, []uuid.UUID{centerID}, nil)

	t.Run("service duration decides the end", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.slots.CreateSlot(ctx, centerOwner, commands.CreateSlotInput{
			Resource: slot.ServiceAt(haircut.ID, centerID),
			Start:    monday(10, 0),
			End:      monday(12, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, monday(10, 45), created.Window().End())
		assert.True(t, created.Price().Valid)
		assert.Equal(t, "8000", created.Price().Decimal.String())
		assert.NotNil(t, f.store.Slot(created.ID()))
	})

	t.Run("overlap is refused", func(t *testing.T) {
		f := newFixture(t)
		f.seedSlot(t, 9, slot.StatusReserved)

		_, err := f.slots.CreateSlot(ctx, fieldOwner, commands.CreateSlotInput{
			Resource: fieldRef(),
			Start:    monday(9, 30),
			End:      monday(10, 30),
		})
		helper.RequireErrorIs(t, err, slot.ErrOverlap)
	})

	t.Run("blocked slots do not occupy", func(t *testing.T) {
		f := newFixture(t)
		f.seedSlot(t, 9, slot.StatusBlocked)

		_, err := f.slots.CreateSlot(ctx, fieldOwner, commands.CreateSlotInput{
			Resource: fieldRef(),
			Start:    monday(9, 0),
			End:      monday(10, 0),
		})
		require.NoError(t, err)
	})

	t.Run("fixed center only accepts its service", func(t *testing.T) {
		f := newFixture(t)
		other := &catalog.Service{ID: uuid.New(), Name: "Manicura", Category: catalog.CategoryBeauty, DurationMin: 30, Active: true}
		f.store.AddBookable(catalog.Bookable{
			Ref:     slot.ServiceAt(other.ID, centerID),
			Owner:   access.Owner{Kind: access.OwnerBeautyCenter, ID: centerID},
			Active:  true,
			Service: other,
			Offered: true,
			Center:  &catalog.CenterPolicy{Mode: catalog.CenterFixed, FixedServiceID: haircut.ID},
		})

		_, err := f.slots.CreateSlot(ctx, centerOwner, commands.CreateSlotInput{
			Resource: slot.ServiceAt(other.ID, centerID),
			Start:    monday(10, 0),
		})
		helper.RequireErrorIs(t, err, catalog.ErrServiceNotOffered)
	})

	t.Run("past start and bad duration are invalid windows", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.slots.CreateSlot(ctx, fieldOwner, commands.CreateSlotInput{
			Resource: fieldRef(),
			Start:    f.clock.Now().Add(-time.Hour),
			End:      f.clock.Now(),
		})
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)

		_, err = f.slots.CreateSlot(ctx, fieldOwner, commands.CreateSlotInput{
			Resource: fieldRef(),
			Start:    monday(9, 0),
			End:      monday(9, 10),
		})
		helper.RequireErrorIs(t, err, slot.ErrInvalidWindow)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.slots.CreateSlot(ctx, access.System(), commands.CreateSlotInput{
			Resource: slot.Field(uuid.New()),
			Start:    monday(9, 0),
			End:      monday(10, 0),
		})
		helper.RequireErrorIs(t, err, commands.ErrResourceNotFound)
	})
}
