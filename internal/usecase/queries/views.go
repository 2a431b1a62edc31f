package queries

import (
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlotView is the read model of one slot.
type SlotView struct {
	ID              uuid.UUID           `json:"id"`
	ResourceKind    string              `json:"resource_kind"`
	ResourceKey     string              `json:"resource_key"`
	Category        string              `json:"category,omitempty"`
	FieldID         *uuid.UUID          `json:"field_id,omitempty"`
	ServiceID       *uuid.UUID          `json:"service_id,omitempty"`
	BeautyCenterID  *uuid.UUID          `json:"beauty_center_id,omitempty"`
	ProfessionalID  *uuid.UUID          `json:"professional_id,omitempty"`
	StartAt         time.Time           `json:"start_at"`
	EndAt           time.Time           `json:"end_at"`
	Price           decimal.NullDecimal `json:"price"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	ReservationCode string              `json:"reservation_code,omitempty"`
	HeldAt          *time.Time          `json:"held_at,omitempty"`
}

type SlotPage struct {
	Items   []SlotView `json:"items"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasNext bool       `json:"has_next"`
	HasPrev bool       `json:"has_prev"`
}

// DayGroup holds one calendar day of a week summary.
type DayGroup struct {
	Date   schedule.Date  `json:"date"`
	Counts map[string]int `json:"counts"`
	Slots  []SlotView     `json:"slots"`
}

type WeekView struct {
	WeekStart schedule.Date `json:"week_start"`
	WeekEnd   schedule.Date `json:"week_end"`
	Total     int           `json:"total"`
	Days      []DayGroup    `json:"days"`
}

type DayCapacityView struct {
	Date      schedule.Date `json:"date"`
	Capacity  int           `json:"capacity"`
	Reserved  int           `json:"reserved"`
	Remaining int           `json:"remaining"`
}

type DayCalendarView struct {
	ProfessionalID uuid.UUID         `json:"professional_id"`
	DailyQuota     int               `json:"daily_quota"`
	Days           []DayCapacityView `json:"days"`
}

// NewSlotView flattens a slot into its read model.
func NewSlotView(s *slot.Slot) SlotView {
	ref := s.Resource()
	w := s.Window()
	return SlotView{
		ID:              s.ID(),
		ResourceKind:    string(ref.Kind()),
		ResourceKey:     ref.Key().String(),
		Category:        string(catalog.CategoryOf(ref)),
		FieldID:         optionalID(ref.FieldID()),
		ServiceID:       optionalID(ref.ServiceID()),
		BeautyCenterID:  optionalID(ref.BeautyCenterID()),
		ProfessionalID:  optionalID(ref.ProfessionalID()),
		StartAt:         w.Start(),
		EndAt:           w.End(),
		Price:           s.Price(),
		Currency:        s.Currency(),
		Status:          s.Status().String(),
		ReservationCode: s.ReservationCode(),
		HeldAt:          s.HeldAt(),
	}
}

func toSlotViews(slots []*slot.Slot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, NewSlotView(s))
	}
	return out
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
