package waitlist

import (
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Criteria selects slots by resource and time bounds. FieldID or ServiceID
// is the resource key the store filters on; the remaining filters are
// applied in process.
type Criteria struct {
	Category       catalog.Category
	FieldID        uuid.UUID
	ServiceID      uuid.UUID
	BeautyCenterID uuid.UUID
	ProfessionalID uuid.UUID
	StartWindow    time.Time
	EndWindow      time.Time
	TimeFrom       *schedule.TimeOfDay
	TimeTo         *schedule.TimeOfDay
	MaxPrice       decimal.NullDecimal
}

func (c Criteria) Validate() error {
	if (c.FieldID == uuid.Nil) == (c.ServiceID == uuid.Nil) {
		return errs.Wrap(ErrInvalidCriteria, "exactly one of field or service is required")
	}
	if c.StartWindow.IsZero() || c.EndWindow.IsZero() || !c.StartWindow.Before(c.EndWindow) {
		return errs.Wrap(ErrInvalidCriteria, "window start must be before window end")
	}
	if c.TimeFrom != nil && c.TimeTo != nil && !c.TimeFrom.Before(*c.TimeTo) {
		return errs.Wrap(ErrInvalidCriteria, "time_from must be before time_to")
	}
	if c.MaxPrice.Valid && c.MaxPrice.Decimal.IsNegative() {
		return errs.Wrap(ErrInvalidCriteria, "max price cannot be negative")
	}
	if c.Category != "" && !c.Category.IsValid() {
		return errs.Wrap(ErrInvalidCriteria, "unknown category")
	}
	return nil
}

// Matches applies every filter to s. Wall-clock filters are evaluated in loc.
func (c Criteria) Matches(s *slot.Slot, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ref := s.Resource()

	switch {
	case c.FieldID != uuid.Nil:
		if ref.Kind() != slot.KindField || ref.FieldID() != c.FieldID {
			return false
		}
	case c.ServiceID != uuid.Nil:
		if ref.ServiceID() != c.ServiceID {
			return false
		}
	default:
		return false
	}
	if c.BeautyCenterID != uuid.Nil && ref.BeautyCenterID() != c.BeautyCenterID {
		return false
	}
	if c.ProfessionalID != uuid.Nil && ref.ProfessionalID() != c.ProfessionalID {
		return false
	}
	if c.Category != "" {
		if cat := catalog.CategoryOf(ref); cat != "" && cat != c.Category {
			return false
		}
	}

	w := s.Window()
	if w.Start().Before(c.StartWindow) || w.End().After(c.EndWindow) {
		return false
	}

	localStart := w.Start().In(loc)
	localEnd := w.End().In(loc)
	if c.TimeFrom != nil && schedule.ClockOf(localStart).Before(*c.TimeFrom) {
		return false
	}
	if c.TimeTo != nil && schedule.DateOf(localStart) == schedule.DateOf(localEnd) &&
		c.TimeTo.Before(schedule.ClockOf(localEnd)) {
		return false
	}

	if c.MaxPrice.Valid {
		price := s.Price()
		if price.Valid && price.Decimal.GreaterThan(c.MaxPrice.Decimal) {
			return false
		}
	}
	return true
}
