package catalog

import (
	"strings"
	"time"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrServiceNotOffered  = errs.New("service is not offered by this resource")
	ErrDurationMismatch   = errs.Wrap(slot.ErrInvalidWindow, "slot duration must match the service duration")
	ErrInactiveResource   = errs.New("resource is not active")
	ErrBookingModeInvalid = errs.New("resource booking mode does not allow this operation")
)

type Category string

const (
	CategorySports        Category = "deportes"
	CategoryBeauty        Category = "estetica"
	CategoryProfessionals Category = "profesionales"
)

func (c Category) IsValid() bool {
	switch c {
	case CategorySports, CategoryBeauty, CategoryProfessionals:
		return true
	default:
		return false
	}
}

type CenterMode string

const (
	CenterFixed    CenterMode = "fixed"
	CenterFlexible CenterMode = "flexible"
)

type Service struct {
	ID          uuid.UUID
	Name        string
	Category    Category
	DurationMin int
	BasePrice   decimal.NullDecimal
	Currency    string
	Active      bool
}

func (s Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

// Bookable is a ResourceRef resolved against the catalog: who owns it and
// which constraints apply to slots bound to it.
type Bookable struct {
	Ref       slot.ResourceRef
	Category  Category
	Label     string
	Owner     access.Owner
	Active    bool
	Service   *Service
	Offered   bool
	Center    *CenterPolicy
	Personnel *ProfessionalPolicy
}

type CenterPolicy struct {
	Mode           CenterMode
	FixedServiceID uuid.UUID
}

type ProfessionalPolicy struct {
	Mode       capacity.BookingMode
	DailyQuota int
}

// CheckService enforces that a bound service is offered by the resource and,
// for centers working in fixed mode, that it is the center's only service.
func (b Bookable) CheckService() error {
	if !b.Ref.BindsService() {
		return nil
	}
	if b.Service == nil || !b.Service.Active {
		return ErrServiceNotOffered
	}
	switch b.Ref.Kind() {
	case slot.KindServiceAt, slot.KindProfessionalService:
		if !b.Offered {
			return ErrServiceNotOffered
		}
	}
	if b.Center != nil && b.Center.Mode == CenterFixed && b.Center.FixedServiceID != uuid.Nil &&
		b.Center.FixedServiceID != b.Service.ID {
		return ErrServiceNotOffered
	}
	return nil
}

// CheckDuration requires service-bound slots to last exactly the service duration.
func (b Bookable) CheckDuration(d time.Duration) error {
	if b.Service == nil || b.Service.DurationMin <= 0 {
		return nil
	}
	if d != b.Service.Duration() {
		return ErrDurationMismatch
	}
	return nil
}

// DefaultPrice is the price new slots inherit when none is given.
func (b Bookable) DefaultPrice() decimal.NullDecimal {
	if b.Service == nil {
		return decimal.NullDecimal{}
	}
	return b.Service.BasePrice
}

func (b Bookable) DefaultCurrency() string {
	if b.Service != nil && strings.TrimSpace(b.Service.Currency) != "" {
		return b.Service.Currency
	}
	return slot.DefaultCurrency
}

// DefaultWeekdays returns nil when the resource type requires an explicit
// weekday filter for generation.
func (b Bookable) DefaultWeekdays(workWeek []int) []int {
	if b.Ref.Kind() == slot.KindField {
		return nil
	}
	return workWeek
}

func (b Bookable) Validate() error {
	if !b.Active {
		return ErrInactiveResource
	}
	return b.CheckService()
}

// CategoryOf maps a reference to its listing category when the variant alone
// decides it.
func CategoryOf(ref slot.ResourceRef) Category {
	switch ref.Kind() {
	case slot.KindField:
		return CategorySports
	case slot.KindServiceAt:
		return CategoryBeauty
	case slot.KindProfessionalService:
		return CategoryProfessionals
	default:
		return ""
	}
}

// Professional is the subset of a professional's profile the day allocator needs.
type Professional struct {
	ID     uuid.UUID
	Name   string
	Active bool
	Policy ProfessionalPolicy
}

// CheckPerDay rejects professionals who are inactive or book by time slot.
func (p Professional) CheckPerDay() error {
	if !p.Active {
		return ErrInactiveResource
	}
	if p.Policy.Mode != capacity.ModePerDay {
		return ErrBookingModeInvalid
	}
	return nil
}
