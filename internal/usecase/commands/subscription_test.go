//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/usecase/commands"
	"slot-engine/tests/common/helper"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldCriteria() *waitlist.Criteria {
	return &waitlist.Criteria{
		FieldID:     fieldID,
		StartWindow: monday(0, 0),
		EndWindow:   monday(23, 0),
	}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("direct subscription on a reserved slot", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusReserved)

		sub, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "Ana@Example.com", SlotID: s.ID()})
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", sub.Email())
		assert.True(t, sub.IsLive())
		assert.Len(t, f.store.Subscriptions(), 1)

		_, err = f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", SlotID: s.ID()})
		helper.RequireErrorIs(t, err, commands.ErrAlreadySubscribed)
		assert.Len(t, f.store.Subscriptions(), 1)
	})

	t.Run("available slot needs no waitlist", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusAvailable)

		_, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", SlotID: s.ID()})
		helper.RequireErrorIs(t, err, commands.ErrSlotStillAvailable)
		assert.Empty(t, f.store.Subscriptions())
	})

	t.Run("stale hold counts as available", func(t *testing.T) {
		f := newFixture(t)
		s := f.seedSlot(t, 9, slot.StatusHolding)
		f.clock.Add(holdTTL + time.Second)

		_, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", SlotID: s.ID()})
		helper.RequireErrorIs(t, err, commands.ErrSlotStillAvailable)
		assert.Equal(t, slot.StatusAvailable, f.store.Slot(s.ID()).Status())
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", SlotID: uuid.New()})
		helper.RequireErrorIs(t, err, commands.ErrSlotNotFound)
	})

	t.Run("criteria subscription", func(t *testing.T) {
		f := newFixture(t)
		sub, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", Criteria: fieldCriteria()})
		require.NoError(t, err)
		assert.False(t, sub.IsDirect())
		require.NotNil(t, sub.Criteria())
		assert.Equal(t, fieldID, sub.Criteria().FieldID)
	})

	t.Run("target validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com"})
		helper.RequireErrorIs(t, err, waitlist.ErrMissingTarget)

		_, err = f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", SlotID: uuid.New(), Criteria: fieldCriteria()})
		helper.RequireErrorIs(t, err, waitlist.ErrInvalidCriteria)

		bad := fieldCriteria()
		bad.EndWindow = bad.StartWindow
		_, err = f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", Criteria: bad})
		helper.RequireErrorIs(t, err, waitlist.ErrInvalidCriteria)

		_, err = f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "nope", Criteria: fieldCriteria()})
		helper.RequireErrorIs(t, err, waitlist.ErrInvalidEmail)
	})
}

func TestSubscriptionTokens(t *testing.T) {
	ctx := context.Background()

	t.Run("pending subscription is activated by token", func(t *testing.T) {
		f := newFixture(t)
		uc := commands.NewSubscriptionUseCase(f.store, f.markers, f.matcher, true, f.clock, nil, nil)

		sub, err := uc.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", Criteria: fieldCriteria()})
		require.NoError(t, err)
		assert.Equal(t, waitlist.StatusPending, sub.Status())
		assert.False(t, sub.IsLive())

		activated, err := uc.Activate(ctx, sub.UnsubscribeToken())
		require.NoError(t, err)
		assert.True(t, activated.IsLive())
	})

	t.Run("unsubscribe is idempotent and final", func(t *testing.T) {
		f := newFixture(t)
		sub, err := f.subscriptions.Subscribe(ctx, commands.SubscribeInput{Email: "ana@example.com", Criteria: fieldCriteria()})
		require.NoError(t, err)

		cancelled, err := f.subscriptions.Unsubscribe(ctx, sub.UnsubscribeToken())
		require.NoError(t, err)
		assert.Equal(t, waitlist.StatusUnsubscribed, cancelled.Status())

		again, err := f.subscriptions.Unsubscribe(ctx, sub.UnsubscribeToken())
		require.NoError(t, err)
		assert.Equal(t, waitlist.StatusUnsubscribed, again.Status())

		_, err = f.subscriptions.Activate(ctx, sub.UnsubscribeToken())
		helper.RequireErrorIs(t, err, waitlist.ErrAlreadyUnsubscribed)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.subscriptions.Unsubscribe(ctx, uuid.New())
		helper.RequireErrorIs(t, err, commands.ErrSubscriptionNotFound)
	})
}
