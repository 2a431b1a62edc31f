package waitlist

import (
	"net/mail"
	"strings"
	"time"

	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail        = errs.New("invalid email address")
	ErrInvalidCriteria     = errs.New("invalid subscription criteria")
	ErrAlreadyUnsubscribed = errs.New("subscription was cancelled")
	ErrMissingTarget       = errs.New("subscription needs a slot or criteria")
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusActive       Status = "active"
	StatusUnsubscribed Status = "unsubscribed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusUnsubscribed:
		return true
	default:
		return false
	}
}

// Subscription is a standing request to hear about a freed slot. It targets
// either one slot directly or every slot matching its criteria.
type Subscription struct {
	id               uuid.UUID
	email            string
	slotID           uuid.UUID
	criteria         *Criteria
	status           Status
	isActive         bool
	unsubscribeToken uuid.UUID
	createdAt        time.Time
}

func NewDirect(email string, slotID uuid.UUID, requireConfirmation bool, now time.Time) (*Subscription, error) {
	if slotID == uuid.Nil {
		return nil, ErrMissingTarget
	}
	return newSubscription(email, slotID, nil, requireConfirmation, now)
}

func NewByCriteria(email string, c Criteria, requireConfirmation bool, now time.Time) (*Subscription, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return newSubscription(email, uuid.Nil, &c, requireConfirmation, now)
}

func newSubscription(email string, slotID uuid.UUID, c *Criteria, requireConfirmation bool, now time.Time) (*Subscription, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	status := StatusActive
	if requireConfirmation {
		status = StatusPending
	}
	return &Subscription{
		id:               uuid.New(),
		email:            normalized,
		slotID:           slotID,
		criteria:         c,
		status:           status,
		isActive:         true,
		unsubscribeToken: uuid.New(),
		createdAt:        now,
	}, nil
}

type Snapshot struct {
	ID               uuid.UUID
	Email            string
	SlotID           uuid.UUID
	Criteria         *Criteria
	Status           Status
	IsActive         bool
	UnsubscribeToken uuid.UUID
	CreatedAt        time.Time
}

func Restore(s Snapshot) (*Subscription, error) {
	if !s.Status.IsValid() {
		return nil, ErrInvalidCriteria
	}
	if s.SlotID == uuid.Nil && s.Criteria == nil {
		return nil, ErrMissingTarget
	}
	return &Subscription{
		id:               s.ID,
		email:            s.Email,
		slotID:           s.SlotID,
		criteria:         s.Criteria,
		status:           s.Status,
		isActive:         s.IsActive,
		unsubscribeToken: s.UnsubscribeToken,
		createdAt:        s.CreatedAt,
	}, nil
}

// Activate confirms a pending subscription. Cancelled subscriptions stay
// cancelled.
func (s *Subscription) Activate() error {
	switch s.status {
	case StatusUnsubscribed:
		return ErrAlreadyUnsubscribed
	case StatusActive:
		return nil
	}
	s.status = StatusActive
	s.isActive = true
	return nil
}

// Unsubscribe reports false when the subscription was already cancelled.
func (s *Subscription) Unsubscribe() bool {
	if s.status == StatusUnsubscribed && !s.isActive {
		return false
	}
	s.status = StatusUnsubscribed
	s.isActive = false
	return true
}

// IsLive reports whether the subscription takes part in matching.
func (s *Subscription) IsLive() bool {
	return s.status == StatusActive && s.isActive
}

func NormalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}

func (s *Subscription) ID() uuid.UUID               { return s.id }
func (s *Subscription) Email() string               { return s.email }
func (s *Subscription) SlotID() uuid.UUID           { return s.slotID }
func (s *Subscription) Criteria() *Criteria         { return s.criteria }
func (s *Subscription) Status() Status              { return s.status }
func (s *Subscription) IsActive() bool              { return s.isActive }
func (s *Subscription) UnsubscribeToken() uuid.UUID { return s.unsubscribeToken }
func (s *Subscription) CreatedAt() time.Time        { return s.createdAt }
func (s *Subscription) IsDirect() bool              { return s.slotID != uuid.Nil }
