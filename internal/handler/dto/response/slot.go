package response

import (
	"time"

	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type SlotResponse struct {
	ID              uuid.UUID  `json:"id"`
	ResourceKind    string     `json:"resource_kind"`
	ResourceKey     string     `json:"resource_key"`
	Category        string     `json:"category,omitempty"`
	FieldID         *uuid.UUID `json:"field_id,omitempty"`
	ServiceID       *uuid.UUID `json:"service_id,omitempty"`
	BeautyCenterID  *uuid.UUID `json:"beauty_center_id,omitempty"`
	ProfessionalID  *uuid.UUID `json:"professional_id,omitempty"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           time.Time  `json:"end_at"`
	Price           string     `json:"price,omitempty"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	ReservationCode string     `json:"reservation_code,omitempty"`
	HeldAt          *time.Time `json:"held_at,omitempty"`
}

var viewCopyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: decimal.NullDecimal{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				d, _ := src.(decimal.NullDecimal)
				if !d.Valid {
					return "", nil
				}
				return d.Decimal.String(), nil
			},
		},
		{
			SrcType: schedule.Date{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				d, _ := src.(schedule.Date)
				return d.String(), nil
			},
		},
	},
}

func FromSlotView(v queries.SlotView) (SlotResponse, error) {
	var res SlotResponse
	if err := copier.CopyWithOption(&res, &v, viewCopyOption); err != nil {
		return SlotResponse{}, errs.Wrapf(err, "map slot %s", v.ID)
	}
	return res, nil
}

func FromSlot(s *slot.Slot) (SlotResponse, error) {
	return FromSlotView(queries.NewSlotView(s))
}

func FromSlotViews(views []queries.SlotView) ([]SlotResponse, error) {
	res := make([]SlotResponse, len(views))
	for i, v := range views {
		mapped, err := FromSlotView(v)
		if err != nil {
			return nil, err
		}
		res[i] = mapped
	}
	return res, nil
}

type SlotPageResponse struct {
	Items   []SlotResponse `json:"items"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	HasNext bool           `json:"has_next"`
	HasPrev bool           `json:"has_prev"`
}

func FromSlotPage(p *queries.SlotPage) (*SlotPageResponse, error) {
	items, err := FromSlotViews(p.Items)
	if err != nil {
		return nil, err
	}
	return &SlotPageResponse{
		Items:   items,
		Total:   p.Total,
		Page:    p.Page,
		Limit:   p.Limit,
		HasNext: p.HasNext,
		HasPrev: p.HasPrev,
	}, nil
}

type ConfirmResponse struct {
	ReservationCode string       `json:"reservation_code"`
	Slot            SlotResponse `json:"slot"`
}

func FromConfirmed(s *slot.Slot) (*ConfirmResponse, error) {
	mapped, err := FromSlot(s)
	if err != nil {
		return nil, err
	}
	return &ConfirmResponse{ReservationCode: s.ReservationCode(), Slot: mapped}, nil
}

type DayGroupResponse struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
	Slots  []SlotResponse `json:"slots"`
}

type WeekResponse struct {
	WeekStart string             `json:"week_start"`
	WeekEnd   string             `json:"week_end"`
	Total     int                `json:"total"`
	Days      []DayGroupResponse `json:"days"`
}

func FromWeekView(w *queries.WeekView) (*WeekResponse, error) {
	res := &WeekResponse{
		WeekStart: w.WeekStart.String(),
		WeekEnd:   w.WeekEnd.String(),
		Total:     w.Total,
		Days:      make([]DayGroupResponse, len(w.Days)),
	}
	for i, d := range w.Days {
		slots, err := FromSlotViews(d.Slots)
		if err != nil {
			return nil, err
		}
		res.Days[i] = DayGroupResponse{
			Date:   d.Date.String(),
			Counts: d.Counts,
			Slots:  slots,
		}
	}
	return res, nil
}

type GenerateResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
