package holdcache

import (
	"context"
	"sync"
	"time"

	"slot-engine/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxTTL bounds the LRU's own eviction; per-entry deadlines decide expiry.
const maxTTL = 24 * time.Hour

// MemoryMarkers keeps hold markers in process. Deadlines are read from the
// injected clock so tests can expire holds without sleeping. Only suitable
// for a single instance.
type MemoryMarkers struct {
	mu    sync.Mutex
	cache *expirable.LRU[uuid.UUID, marker]
	clock clock.Clock
}

type marker struct {
	deadline time.Time
	token    string
}

func NewMemoryMarkers(size int, clk clock.Clock) *MemoryMarkers {
	if size <= 0 {
		size = 10000
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MemoryMarkers{
		cache: expirable.NewLRU[uuid.UUID, marker](size, nil, maxTTL),
		clock: clk,
	}
}

func (m *MemoryMarkers) Put(_ context.Context, slotID uuid.UUID, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(slotID, marker{deadline: m.clock.Now().Add(ttl), token: token})
	return token, nil
}

func (m *MemoryMarkers) Exists(_ context.Context, slotID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mk, ok := m.cache.Get(slotID)
	if !ok {
		return false, nil
	}
	if !m.clock.Now().Before(mk.deadline) {
		m.cache.Remove(slotID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryMarkers) Remove(_ context.Context, slotID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mk, ok := m.cache.Peek(slotID); ok && mk.token == token {
		m.cache.Remove(slotID)
	}
	return nil
}

func (m *MemoryMarkers) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}
