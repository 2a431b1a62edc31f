package request

import (
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscribeRequest targets either one slot or a criteria set.
type SubscribeRequest struct {
	Email    string           `json:"email" binding:"required"`
	SlotID   *uuid.UUID       `json:"slot_id"`
	Criteria *CriteriaRequest `json:"criteria"`
}

type CriteriaRequest struct {
	Category       string              `json:"category"`
	FieldID        *uuid.UUID          `json:"field_id"`
	ServiceID      *uuid.UUID          `json:"service_id"`
	BeautyCenterID *uuid.UUID          `json:"beauty_center_id"`
	ProfessionalID *uuid.UUID          `json:"professional_id"`
	StartWindow    time.Time           `json:"start_window"`
	EndWindow      time.Time           `json:"end_window"`
	TimeFrom       *schedule.TimeOfDay `json:"time_from"`
	TimeTo         *schedule.TimeOfDay `json:"time_to"`
	MaxPrice       *decimal.Decimal    `json:"max_price"`
}

func (r *SubscribeRequest) ToInput() commands.SubscribeInput {
	in := commands.SubscribeInput{Email: r.Email}
	if r.SlotID != nil {
		in.SlotID = *r.SlotID
	}
	if r.Criteria != nil {
		c := r.Criteria.toDomain()
		in.Criteria = &c
	}
	return in
}

func (r *CriteriaRequest) toDomain() waitlist.Criteria {
	return waitlist.Criteria{
		Category:       catalog.Category(r.Category),
		FieldID:        derefID(r.FieldID),
		ServiceID:      derefID(r.ServiceID),
		BeautyCenterID: derefID(r.BeautyCenterID),
		ProfessionalID: derefID(r.ProfessionalID),
		StartWindow:    r.StartWindow,
		EndWindow:      r.EndWindow,
		TimeFrom:       r.TimeFrom,
		TimeTo:         r.TimeTo,
		MaxPrice:       nullDecimal(r.MaxPrice),
	}
}

func derefID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
