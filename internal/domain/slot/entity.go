package slot

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "ARS"

type Slot struct {
	id              uuid.UUID
	resource        ResourceRef
	window          Window
	status          Status
	reservationCode string
	price           decimal.NullDecimal
	currency        string
	heldAt          *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func NewSlot(id uuid.UUID, resource ResourceRef, window Window, price decimal.NullDecimal, currency string, now time.Time) (*Slot, error) {
	if err := resource.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateDuration(window.Duration()); err != nil {
		return nil, err
	}
	if price.Valid && price.Decimal.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Slot{
		id:        id,
		resource:  resource,
		window:    window,
		status:    StatusAvailable,
		price:     price,
		currency:  strings.ToUpper(currency),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Snapshot carries persisted slot columns back into the domain.
type Snapshot struct {
	ID              uuid.UUID
	Resource        ResourceRef
	Start           time.Time
	End             time.Time
	Status          Status
	ReservationCode string
	Price           decimal.NullDecimal
	Currency        string
	HeldAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func Restore(s Snapshot) (*Slot, error) {
	window, err := NewWindow(s.Start, s.End)
	if err != nil {
		return nil, err
	}
	if !s.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Slot{
		id:              s.ID,
		resource:        s.Resource,
		window:          window,
		status:          s.Status,
		reservationCode: s.ReservationCode,
		price:           s.Price,
		currency:        s.Currency,
		heldAt:          s.HeldAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}, nil
}

func (s *Slot) Hold(now time.Time) error {
	if s.status != StatusAvailable {
		return ErrNotAvailable
	}
	s.status = StatusHolding
	s.heldAt = &now
	s.updatedAt = now
	return nil
}

func (s *Slot) Confirm(code string, now time.Time) error {
	if s.status != StatusHolding {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(code) == "" {
		return ErrInvalidReservationCode
	}
	s.status = StatusReserved
	s.reservationCode = code
	s.heldAt = nil
	s.updatedAt = now
	return nil
}

// Release returns the slot to AVAILABLE and reports the status it left.
// Releasing an AVAILABLE slot changes nothing. BLOCKED slots are only
// reopened when allowBlocked is set.
func (s *Slot) Release(allowBlocked bool, now time.Time) (Status, error) {
	prev := s.status
	switch prev {
	case StatusAvailable:
		return prev, nil
	case StatusBlocked:
		if !allowBlocked {
			return prev, ErrInvalidTransition
		}
	}
	s.status = StatusAvailable
	s.reservationCode = ""
	s.heldAt = nil
	s.updatedAt = now
	return prev, nil
}

func (s *Slot) Block(now time.Time) error {
	if s.status != StatusAvailable {
		return ErrInvalidTransition
	}
	s.status = StatusBlocked
	s.updatedAt = now
	return nil
}

// ExpireHold reverts a hold whose marker is gone. Reports false when the
// slot is not holding.
func (s *Slot) ExpireHold(now time.Time) bool {
	if s.status != StatusHolding {
		return false
	}
	s.status = StatusAvailable
	s.heldAt = nil
	s.updatedAt = now
	return true
}

// FreesUp reports whether leaving prev for AVAILABLE should wake the waitlist.
func FreesUp(prev Status) bool {
	return prev == StatusHolding || prev == StatusReserved
}

func (s *Slot) ID() uuid.UUID              { return s.id }
func (s *Slot) Resource() ResourceRef      { return s.resource }
func (s *Slot) Key() ResourceKey           { return s.resource.Key() }
func (s *Slot) Window() Window             { return s.window }
func (s *Slot) Status() Status             { return s.status }
func (s *Slot) ReservationCode() string    { return s.reservationCode }
func (s *Slot) Price() decimal.NullDecimal { return s.price }
func (s *Slot) Currency() string           { return s.currency }
func (s *Slot) HeldAt() *time.Time         { return s.heldAt }
func (s *Slot) CreatedAt() time.Time       { return s.createdAt }
func (s *Slot) UpdatedAt() time.Time       { return s.updatedAt }
func (s *Slot) IsHolding() bool            { return s.status == StatusHolding }
