//go:build unit

package holdcache_test

import (
	"context"
	"testing"
	"time"

	"slot-engine/internal/infra/holdcache"
	"slot-engine/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMarkers(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC))
	markers := holdcache.NewMemoryMarkers(8, clk)
	id := uuid.New()

	t.Run("marker lives until its deadline", func(t *testing.T) {
		_, err := markers.Put(ctx, id, time.Second)
		require.NoError(t, err)

		ok, err := markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		clk.Add(time.Second)
		ok, err = markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, markers.Len())
	})

	t.Run("remove drops the marker", func(t *testing.T) {
		token, err := markers.Put(ctx, id, time.Minute)
		require.NoError(t, err)
		require.NoError(t, markers.Remove(ctx, id, token))

		ok, err := markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("remove with a superseded token keeps the newer marker", func(t *testing.T) {
		first, err := markers.Put(ctx, id, time.Minute)
		require.NoError(t, err)
		second, err := markers.Put(ctx, id, time.Minute)
		require.NoError(t, err)
		require.NotEqual(t, first, second)

		require.NoError(t, markers.Remove(ctx, id, first))
		ok, err := markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, markers.Remove(ctx, id, second))
		ok, err = markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put refreshes the deadline", func(t *testing.T) {
		_, err := markers.Put(ctx, id, time.Minute)
		require.NoError(t, err)
		clk.Add(50 * time.Second)
		_, err = markers.Put(ctx, id, time.Minute)
		require.NoError(t, err)
		clk.Add(50 * time.Second)

		ok, err := markers.Exists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestKey(t *testing.T) {
	id := uuid.MustParse("7f1b7d2c-1b0a-4c59-9a43-0d8e7d7a1e11")
	assert.Equal(t, "hold:slot:7f1b7d2c-1b0a-4c59-9a43-0d8e7d7a1e11", holdcache.Key(id))
}
