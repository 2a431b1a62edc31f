package request

import (
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/usecase/commands"
	"slot-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResourceRequest names the bookable resource a slot belongs to. Only the
// identifiers of the chosen kind are read.
type ResourceRequest struct {
	Kind           string     `json:"kind" binding:"required,oneof=field service_at professional_service service"`
	FieldID        *uuid.UUID `json:"field_id"`
	ServiceID      *uuid.UUID `json:"service_id"`
	BeautyCenterID *uuid.UUID `json:"beauty_center_id"`
	ProfessionalID *uuid.UUID `json:"professional_id"`
}

func (r ResourceRequest) ToRef() (slot.ResourceRef, error) {
	return slot.RestoreResourceRef(slot.ResourceKind(r.Kind), r.FieldID, r.ServiceID, r.BeautyCenterID, r.ProfessionalID)
}

type CreateSlotRequest struct {
	Resource ResourceRequest  `json:"resource" binding:"required"`
	StartAt  time.Time        `json:"start_at" binding:"required"`
	EndAt    *time.Time       `json:"end_at"`
	Price    *decimal.Decimal `json:"price"`
	Currency string           `json:"currency" binding:"omitempty,len=3"`
}

func (r *CreateSlotRequest) ToInput() (commands.CreateSlotInput, error) {
	ref, err := r.Resource.ToRef()
	if err != nil {
		return commands.CreateSlotInput{}, err
	}
	in := commands.CreateSlotInput{
		Resource: ref,
		Start:    r.StartAt,
		Price:    nullDecimal(r.Price),
		Currency: r.Currency,
	}
	if r.EndAt != nil {
		in.End = *r.EndAt
	}
	return in, nil
}

// ListSlotsQuery carries the listing and week summary query string.
type ListSlotsQuery struct {
	Date       string `form:"date"`
	Category   string `form:"category"`
	Status     string `form:"status"`
	ResourceID string `form:"resource_id"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1"`
}

func (q *ListSlotsQuery) ToFilter() (queries.SlotFilter, error) {
	f := queries.SlotFilter{
		Category: catalog.Category(q.Category),
		Status:   slot.Status(q.Status),
		Page:     q.Page,
		Limit:    q.Limit,
	}
	if q.Date != "" {
		d, err := schedule.ParseDate(q.Date)
		if err != nil {
			return queries.SlotFilter{}, err
		}
		f.Date = &d
	}
	if q.ResourceID != "" {
		id, err := uuid.Parse(q.ResourceID)
		if err != nil {
			return queries.SlotFilter{}, err
		}
		f.ResourceID = id
	}
	return f, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
