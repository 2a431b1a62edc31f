package response

import (
	"time"

	"slot-engine/internal/domain/waitlist"

	"github.com/google/uuid"
)

// SubscriptionResponse carries the token used to activate or cancel the
// subscription.
type SubscriptionResponse struct {
	ID               uuid.UUID  `json:"subscription_id"`
	Email            string     `json:"email"`
	SlotID           *uuid.UUID `json:"slot_id,omitempty"`
	ByCriteria       bool       `json:"by_criteria"`
	Status           string     `json:"status"`
	Active           bool       `json:"is_active"`
	UnsubscribeToken uuid.UUID  `json:"unsubscribe_token"`
	CreatedAt        time.Time  `json:"created_at"`
}

func FromSubscription(s *waitlist.Subscription) *SubscriptionResponse {
	res := &SubscriptionResponse{
		ID:               s.ID(),
		Email:            s.Email(),
		ByCriteria:       !s.IsDirect(),
		Status:           string(s.Status()),
		Active:           s.IsActive(),
		UnsubscribeToken: s.UnsubscribeToken(),
		CreatedAt:        s.CreatedAt(),
	}
	if s.IsDirect() {
		id := s.SlotID()
		res.SlotID = &id
	}
	return res
}
