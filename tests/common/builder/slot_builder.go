//go:build unit || e2e || integration

package builder

import (
	"time"

	"slot-engine/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SlotBuilder struct {
	ID       uuid.UUID
	Resource slot.ResourceRef
	Start    time.Time
	Duration time.Duration
	Status   slot.Status
	Code     string
	Price    decimal.NullDecimal
	Currency string
	HeldAt   *time.Time
	Now      time.Time
}

func NewSlotBuilder() *SlotBuilder {
	now := time.Date(2030, 3, 4, 8, 0, 0, 0, time.UTC)
	return &SlotBuilder{
		ID:       uuid.New(),
		Resource: slot.Field(uuid.New()),
		Start:    time.Date(2030, 3, 4, 9, 0, 0, 0, time.UTC),
		Duration: time.Hour,
		Status:   slot.StatusAvailable,
		Price:    decimal.NewNullDecimal(decimal.RequireFromString("12000.00")),
		Currency: slot.DefaultCurrency,
		Now:      now,
	}
}

func (b *SlotBuilder) With(mutate func(*SlotBuilder)) *SlotBuilder {
	mutate(b)
	return b
}

func (b *SlotBuilder) WithResource(ref slot.ResourceRef) *SlotBuilder {
	b.Resource = ref
	return b
}

func (b *SlotBuilder) WithWindow(start time.Time, d time.Duration) *SlotBuilder {
	b.Start = start
	b.Duration = d
	return b
}

func (b *SlotBuilder) WithStatus(status slot.Status) *SlotBuilder {
	b.Status = status
	switch status {
	case slot.StatusReserved:
		if b.Code == "" {
			b.Code = "ABCD1234"
		}
	case slot.StatusHolding:
		if b.HeldAt == nil {
			held := b.Now
			b.HeldAt = &held
		}
	}
	return b
}

func (b *SlotBuilder) BuildDomain() (*slot.Slot, error) {
	window, err := slot.NewWindow(b.Start, b.Start.Add(b.Duration))
	if err != nil {
		return nil, err
	}
	if b.Status == "" || b.Status == slot.StatusAvailable {
		return slot.NewSlot(b.ID, b.Resource, window, b.Price, b.Currency, b.Now)
	}
	return slot.Restore(b.Snapshot())
}

// MustBuild panics on invalid input; test fixtures only.
func (b *SlotBuilder) MustBuild() *slot.Slot {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}

func (b *SlotBuilder) Snapshot() slot.Snapshot {
	return slot.Snapshot{
		ID:              b.ID,
		Resource:        b.Resource,
		Start:           b.Start,
		End:             b.Start.Add(b.Duration),
		Status:          b.Status,
		ReservationCode: b.Code,
		Price:           b.Price,
		Currency:        b.Currency,
		HeldAt:          b.HeldAt,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}
