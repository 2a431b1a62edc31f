//go:build unit

package sweeper_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/usecase/sweeper"
	"slot-engine/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	mu     sync.Mutex
	slots  []*slot.Slot
	err    error
	limits []int
}

func (l *stubLister) ListHolding(_ context.Context, limit int) ([]*slot.Slot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limits = append(l.limits, limit)
	return l.slots, l.err
}

func (l *stubLister) calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limits)
}

type countingSweep struct {
	mu   sync.Mutex
	seen int
}

func (c *countingSweep) Sweep(_ context.Context, slots []*slot.Slot) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen += len(slots)
	return len(slots)
}

func TestTick(t *testing.T) {
	ctx := context.Background()
	held := builder.NewSlotBuilder().WithStatus(slot.StatusHolding).MustBuild()

	t.Run("passes the batch to the expiry", func(t *testing.T) {
		lister := &stubLister{slots: []*slot.Slot{held}}
		sweep := &countingSweep{}
		s := sweeper.New(lister, sweep, time.Minute, 50, nil, nil)

		assert.Equal(t, 1, s.Tick(ctx))
		assert.Equal(t, []int{50}, lister.limits)
		assert.Equal(t, 1, sweep.seen)
	})

	t.Run("listing errors are swallowed", func(t *testing.T) {
		lister := &stubLister{err: errors.New("db down")}
		sweep := &countingSweep{}
		s := sweeper.New(lister, sweep, time.Minute, 0, nil, nil)

		assert.Zero(t, s.Tick(ctx))
		assert.Equal(t, []int{200}, lister.limits)
		assert.Zero(t, sweep.seen)
	})
}

func TestRun(t *testing.T) {
	t.Run("zero interval disables the loop", func(t *testing.T) {
		lister := &stubLister{}
		s := sweeper.New(lister, &countingSweep{}, 0, 10, nil, nil)

		assert.False(t, s.Enabled())
		require.NoError(t, s.Run(context.Background()))
		assert.Zero(t, lister.calls())
	})

	t.Run("sweeps until cancelled", func(t *testing.T) {
		lister := &stubLister{}
		s := sweeper.New(lister, &countingSweep{}, 5*time.Millisecond, 10, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.Run(ctx) }()

		require.Eventually(t, func() bool { return lister.calls() >= 2 }, time.Second, time.Millisecond)
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}
