package converter

import (
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SlotColumns is the column order every slot scan expects.
var SlotColumns = []string{
	"id",
	"resource_kind",
	"field_id",
	"service_id",
	"beauty_center_id",
	"professional_id",
	"start_at",
	"end_at",
	"price",
	"currency",
	"status",
	"reservation_code",
	"held_at",
	"created_at",
	"updated_at",
}

// SlotInsertColumns adds the derived resource key to the stored columns.
var SlotInsertColumns = []string{
	"id",
	"resource_kind",
	"resource_key",
	"field_id",
	"service_id",
	"beauty_center_id",
	"professional_id",
	"start_at",
	"end_at",
	"price",
	"currency",
	"status",
	"reservation_code",
	"held_at",
	"created_at",
	"updated_at",
}

type slotRow struct {
	ID              uuid.UUID
	Kind            string
	FieldID         pgtype.UUID
	ServiceID       pgtype.UUID
	BeautyCenterID  pgtype.UUID
	ProfessionalID  pgtype.UUID
	StartAt         time.Time
	EndAt           time.Time
	Price           pgtype.Numeric
	Currency        string
	Status          string
	ReservationCode pgtype.Text
	HeldAt          pgtype.Timestamptz
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScanSlot reads one row selected with SlotColumns.
func ScanSlot(row pgx.Row) (*slot.Slot, error) {
	var r slotRow
	if err := row.Scan(
		&r.ID,
		&r.Kind,
		&r.FieldID,
		&r.ServiceID,
		&r.BeautyCenterID,
		&r.ProfessionalID,
		&r.StartAt,
		&r.EndAt,
		&r.Price,
		&r.Currency,
		&r.Status,
		&r.ReservationCode,
		&r.HeldAt,
		&r.CreatedAt,
		&r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return r.toDomain()
}

func (r slotRow) toDomain() (*slot.Slot, error) {
	ref, err := slot.RestoreResourceRef(
		slot.ResourceKind(r.Kind),
		pgconv.UUIDPtrFromPgtype(r.FieldID),
		pgconv.UUIDPtrFromPgtype(r.ServiceID),
		pgconv.UUIDPtrFromPgtype(r.BeautyCenterID),
		pgconv.UUIDPtrFromPgtype(r.ProfessionalID),
	)
	if err != nil {
		return nil, err
	}
	price, err := pgconv.NullDecimalFromNumeric(r.Price)
	if err != nil {
		return nil, err
	}
	return slot.Restore(slot.Snapshot{
		ID:              r.ID,
		Resource:        ref,
		Start:           r.StartAt,
		End:             r.EndAt,
		Status:          slot.Status(r.Status),
		ReservationCode: pgconv.StringFromPgtype(r.ReservationCode),
		Price:           price,
		Currency:        r.Currency,
		HeldAt:          pgconv.TimePtrFromPgtype(r.HeldAt),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	})
}

// SlotValues renders s in SlotInsertColumns order.
func SlotValues(s *slot.Slot) []any {
	ref := s.Resource()
	w := s.Window()
	return []any{
		pgconv.UUIDToPgtype(s.ID()),
		string(ref.Kind()),
		s.Key().String(),
		pgconv.NullableUUIDToPgtype(ref.FieldID()),
		pgconv.NullableUUIDToPgtype(ref.ServiceID()),
		pgconv.NullableUUIDToPgtype(ref.BeautyCenterID()),
		pgconv.NullableUUIDToPgtype(ref.ProfessionalID()),
		w.Start(),
		w.End(),
		pgconv.NullDecimalToNumeric(s.Price()),
		s.Currency(),
		string(s.Status()),
		pgconv.NullableStringToPgtype(s.ReservationCode()),
		pgconv.TimePtrToPgtype(s.HeldAt()),
		s.CreatedAt(),
		s.UpdatedAt(),
	}
}
