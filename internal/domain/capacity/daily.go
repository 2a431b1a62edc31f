package capacity

import (
	"time"

	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCapacityExceeded = errs.New("daily capacity exceeded")
	ErrInvalidCapacity  = errs.New("capacity cannot be negative")
)

type BookingMode string

const (
	ModeClassic  BookingMode = "classic"
	ModePerDay   BookingMode = "per_day"
	ModeFlexible BookingMode = "flexible"
)

func (m BookingMode) IsValid() bool {
	switch m {
	case ModeClassic, ModePerDay, ModeFlexible:
		return true
	default:
		return false
	}
}

// DailyAvailability counts day bookings for one professional on one date.
// ReservedCount never exceeds Capacity.
type DailyAvailability struct {
	id             uuid.UUID
	professionalID uuid.UUID
	day            time.Time
	capacity       int
	reservedCount  int
}

func NewDailyAvailability(id, professionalID uuid.UUID, day time.Time, capacity int) (*DailyAvailability, error) {
	return Restore(id, professionalID, day, capacity, 0)
}

func Restore(id, professionalID uuid.UUID, day time.Time, capacity, reservedCount int) (*DailyAvailability, error) {
	if capacity < 0 || reservedCount < 0 {
		return nil, ErrInvalidCapacity
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &DailyAvailability{
		id:             id,
		professionalID: professionalID,
		day:            TruncateDay(day),
		capacity:       capacity,
		reservedCount:  reservedCount,
	}, nil
}

// Admit takes one unit of capacity or fails without mutating.
func (d *DailyAvailability) Admit() error {
	if d.reservedCount >= d.capacity {
		return ErrCapacityExceeded
	}
	d.reservedCount++
	return nil
}

func (d *DailyAvailability) Remaining() int {
	if r := d.capacity - d.reservedCount; r > 0 {
		return r
	}
	return 0
}

// TruncateDay normalises to midnight UTC of the calendar day of t.
func TruncateDay(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func (d *DailyAvailability) ID() uuid.UUID             { return d.id }
func (d *DailyAvailability) ProfessionalID() uuid.UUID { return d.professionalID }
func (d *DailyAvailability) Day() time.Time            { return d.day }
func (d *DailyAvailability) Capacity() int             { return d.capacity }
func (d *DailyAvailability) ReservedCount() int        { return d.reservedCount }
func (d *DailyAvailability) IsFull() bool              { return d.reservedCount >= d.capacity }
