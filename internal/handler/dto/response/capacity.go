package response

import (
	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DayAvailabilityResponse struct {
	ProfessionalID uuid.UUID `json:"professional_id"`
	Date           string    `json:"date"`
	Capacity       int       `json:"capacity"`
	Reserved       int       `json:"reserved"`
	Remaining      int       `json:"remaining"`
}

func FromDailyAvailability(d *capacity.DailyAvailability) *DayAvailabilityResponse {
	return &DayAvailabilityResponse{
		ProfessionalID: d.ProfessionalID(),
		Date:           schedule.DateOf(d.Day()).String(),
		Capacity:       d.Capacity(),
		Reserved:       d.ReservedCount(),
		Remaining:      d.Remaining(),
	}
}

type DayCapacityResponse struct {
	Date      string `json:"date"`
	Capacity  int    `json:"capacity"`
	Reserved  int    `json:"reserved"`
	Remaining int    `json:"remaining"`
}

type DayCalendarResponse struct {
	ProfessionalID uuid.UUID             `json:"professional_id"`
	DailyQuota     int                   `json:"daily_quota"`
	Days           []DayCapacityResponse `json:"days"`
}

func FromDayCalendar(v *queries.DayCalendarView) (*DayCalendarResponse, error) {
	res := &DayCalendarResponse{
		ProfessionalID: v.ProfessionalID,
		DailyQuota:     v.DailyQuota,
		Days:           make([]DayCapacityResponse, len(v.Days)),
	}
	for i := range v.Days {
		if err := copier.CopyWithOption(&res.Days[i], &v.Days[i], viewCopyOption); err != nil {
			return nil, errs.Wrapf(err, "map calendar day %s", v.Days[i].Date)
		}
	}
	return res, nil
}
