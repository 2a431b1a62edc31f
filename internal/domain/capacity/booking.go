package capacity

import (
	"time"

	"github.com/google/uuid"
)

// DayBooking records who took one unit of a day's capacity.
type DayBooking struct {
	ID                  uuid.UUID
	DailyAvailabilityID uuid.UUID
	ProfessionalID      uuid.UUID
	Day                 time.Time
	Email               string
	CreatedAt           time.Time
}

func NewDayBooking(d *DailyAvailability, email string, now time.Time) DayBooking {
	return DayBooking{
		ID:                  uuid.New(),
		DailyAvailabilityID: d.id,
		ProfessionalID:      d.professionalID,
		Day:                 d.day,
		Email:               email,
		CreatedAt:           now,
	}
}
