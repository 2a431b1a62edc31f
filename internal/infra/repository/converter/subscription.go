package converter

import (
	"encoding/json"
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var SubscriptionColumns = []string{
	"id",
	"email",
	"timeslot_id",
	"field_id",
	"service_id",
	"start_window",
	"end_window",
	"criteria",
	"status",
	"is_active",
	"token_unsubscribe",
	"created_at",
}

// criteriaRecord is the JSONB shape of subscription criteria.
type criteriaRecord struct {
	Category       string              `json:"category,omitempty"`
	FieldID        *uuid.UUID          `json:"field_id,omitempty"`
	ServiceID      *uuid.UUID          `json:"service_id,omitempty"`
	BeautyCenterID *uuid.UUID          `json:"beauty_center_id,omitempty"`
	ProfessionalID *uuid.UUID          `json:"professional_id,omitempty"`
	StartWindow    time.Time           `json:"start_window"`
	EndWindow      time.Time           `json:"end_window"`
	TimeFrom       *schedule.TimeOfDay `json:"time_from,omitempty"`
	TimeTo         *schedule.TimeOfDay `json:"time_to,omitempty"`
	MaxPrice       decimal.NullDecimal `json:"max_price"`
}

func idPtr(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

func idOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func encodeCriteria(c *waitlist.Criteria) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(criteriaRecord{
		Category:       string(c.Category),
		FieldID:        idPtr(c.FieldID),
		ServiceID:      idPtr(c.ServiceID),
		BeautyCenterID: idPtr(c.BeautyCenterID),
		ProfessionalID: idPtr(c.ProfessionalID),
		StartWindow:    c.StartWindow,
		EndWindow:      c.EndWindow,
		TimeFrom:       c.TimeFrom,
		TimeTo:         c.TimeTo,
		MaxPrice:       c.MaxPrice,
	})
}

func decodeCriteria(raw []byte) (*waitlist.Criteria, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rec criteriaRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &waitlist.Criteria{
		Category:       catalog.Category(rec.Category),
		FieldID:        idOrNil(rec.FieldID),
		ServiceID:      idOrNil(rec.ServiceID),
		BeautyCenterID: idOrNil(rec.BeautyCenterID),
		ProfessionalID: idOrNil(rec.ProfessionalID),
		StartWindow:    rec.StartWindow,
		EndWindow:      rec.EndWindow,
		TimeFrom:       rec.TimeFrom,
		TimeTo:         rec.TimeTo,
		MaxPrice:       rec.MaxPrice,
	}, nil
}

// SubscriptionValues renders sub in SubscriptionColumns order. The resource
// and window columns are copies of the criteria kept for indexed matching.
func SubscriptionValues(sub *waitlist.Subscription) ([]any, error) {
	raw, err := encodeCriteria(sub.Criteria())
	if err != nil {
		return nil, err
	}

	var (
		fieldID, serviceID pgtype.UUID
		start, end         pgtype.Timestamptz
	)
	if c := sub.Criteria(); c != nil {
		fieldID = pgconv.NullableUUIDToPgtype(c.FieldID)
		serviceID = pgconv.NullableUUIDToPgtype(c.ServiceID)
		start = pgconv.TimeToPgtype(c.StartWindow)
		end = pgconv.TimeToPgtype(c.EndWindow)
	}

	return []any{
		sub.ID(),
		sub.Email(),
		pgconv.NullableUUIDToPgtype(sub.SlotID()),
		fieldID,
		serviceID,
		start,
		end,
		raw,
		string(sub.Status()),
		sub.IsActive(),
		sub.UnsubscribeToken(),
		sub.CreatedAt(),
	}, nil
}

func ScanSubscription(row pgx.Row) (*waitlist.Subscription, error) {
	var (
		id, token          uuid.UUID
		email, status      string
		slotID             pgtype.UUID
		fieldID, serviceID pgtype.UUID
		start, end         pgtype.Timestamptz
		raw                []byte
		isActive           bool
		createdAt          time.Time
	)
	if err := row.Scan(&id, &email, &slotID, &fieldID, &serviceID, &start, &end, &raw, &status, &isActive, &token, &createdAt); err != nil {
		return nil, err
	}
	criteria, err := decodeCriteria(raw)
	if err != nil {
		return nil, err
	}
	return waitlist.Restore(waitlist.Snapshot{
		ID:               id,
		Email:            email,
		SlotID:           pgconv.UUIDFromPgtype(slotID),
		Criteria:         criteria,
		Status:           waitlist.Status(status),
		IsActive:         isActive,
		UnsubscribeToken: token,
		CreatedAt:        createdAt,
	})
}
