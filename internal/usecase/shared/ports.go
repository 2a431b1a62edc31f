package shared

import (
	"context"
	"time"

	"slot-engine/internal/domain/waitlist"

	"github.com/google/uuid"
)

// HoldMarkers is the TTL cache whose entries signal live holds. Each Put
// mints a token; Remove deletes the marker only while it still carries that
// token, so a later hold's marker survives an earlier holder's cleanup.
type HoldMarkers interface {
	Put(ctx context.Context, slotID uuid.UUID, ttl time.Duration) (token string, err error)
	Exists(ctx context.Context, slotID uuid.UUID) (bool, error)
	Remove(ctx context.Context, slotID uuid.UUID, token string) error
}

// Enqueuer hands one waitlist match to the outbound notification channel.
type Enqueuer interface {
	Enqueue(ctx context.Context, notice waitlist.Notice) error
}
