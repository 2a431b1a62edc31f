package request

import (
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/usecase/commands"

	"github.com/shopspring/decimal"
)

// GenerateRequest describes a recurring daily window. Dates are YYYY-MM-DD
// and times HH:MM in the generation zone. Weekdays count from Monday = 0.
type GenerateRequest struct {
	Resource    ResourceRequest    `json:"resource" binding:"required"`
	StartDate   schedule.Date      `json:"start_date"`
	EndDate     schedule.Date      `json:"end_date"`
	StartTime   schedule.TimeOfDay `json:"start_time"`
	EndTime     schedule.TimeOfDay `json:"end_time"`
	DurationMin int                `json:"duration_min" binding:"omitempty,min=1"`
	IntervalMin int                `json:"interval_min" binding:"omitempty,min=1"`
	Weekdays    []int              `json:"weekdays" binding:"omitempty,dive,min=0,max=6"`
	Price       *decimal.Decimal   `json:"price"`
	Currency    string             `json:"currency" binding:"omitempty,len=3"`
}

func (r *GenerateRequest) ToInput() (commands.GenerateInput, error) {
	ref, err := r.Resource.ToRef()
	if err != nil {
		return commands.GenerateInput{}, err
	}
	return commands.GenerateInput{
		Resource: ref,
		Recurrence: schedule.Recurrence{
			StartDate:   r.StartDate,
			EndDate:     r.EndDate,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			DurationMin: r.DurationMin,
			IntervalMin: r.IntervalMin,
			Weekdays:    r.Weekdays,
		},
		Price:    nullDecimal(r.Price),
		Currency: r.Currency,
	}, nil
}
