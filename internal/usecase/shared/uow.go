package shared

import (
	"context"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for consistent multi-table reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction. Repositories are created
// lazily and must not outlive fn.
type Tx interface {
	Slots() SlotRepository
	DailyAvailability() DailyAvailabilityRepository
	DayBookings() DayBookingRepository
	Subscriptions() SubscriptionRepository
	Catalog() CatalogReader
	// LockResource serialises overlap-sensitive writes for one resource key
	// until the transaction ends.
	LockResource(ctx context.Context, key slot.ResourceKey) error
}

type SlotRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// ListByKeyInRange returns slots of key whose window overlaps [from, to).
	ListByKeyInRange(ctx context.Context, key slot.ResourceKey, from, to time.Time) ([]*slot.Slot, error)
	Insert(ctx context.Context, s *slot.Slot) error
	InsertMany(ctx context.Context, slots []*slot.Slot) (int64, error)
	Update(ctx context.Context, s *slot.Slot) error
}

type DailyAvailabilityRepository interface {
	// EnsureForUpdate creates the (professional, day) row when absent and
	// returns it locked.
	EnsureForUpdate(ctx context.Context, professionalID uuid.UUID, day time.Time, capacity int) (*capacity.DailyAvailability, error)
	Save(ctx context.Context, d *capacity.DailyAvailability) error
}

type DayBookingRepository interface {
	Insert(ctx context.Context, b capacity.DayBooking) error
}

type SubscriptionRepository interface {
	Insert(ctx context.Context, sub *waitlist.Subscription) error
	Update(ctx context.Context, sub *waitlist.Subscription) error
	GetByToken(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error)
	ExistsActiveDirect(ctx context.Context, email string, slotID uuid.UUID) (bool, error)
	// ListDirect returns live subscriptions pointing at slotID.
	ListDirect(ctx context.Context, slotID uuid.UUID) ([]*waitlist.Subscription, error)
	// ListByResourceWindow returns live criteria subscriptions on the field or
	// service whose window contains [start, end).
	ListByResourceWindow(ctx context.Context, fieldID, serviceID uuid.UUID, start, end time.Time) ([]*waitlist.Subscription, error)
}

type CatalogReader interface {
	Resolve(ctx context.Context, ref slot.ResourceRef) (*catalog.Bookable, error)
	Professional(ctx context.Context, id uuid.UUID) (*catalog.Professional, error)
}
