package waitlist

import (
	"strings"
	"time"

	"slot-engine/internal/domain/slot"

	"github.com/google/uuid"
)

const NoticeKind = "waitlist.slot_released"

// Notice is the payload handed to the outbound channel for one match.
type Notice struct {
	SubscriptionID   uuid.UUID `json:"subscription_id"`
	SlotID           uuid.UUID `json:"slot_id"`
	Email            string    `json:"email"`
	Subject          string    `json:"subject"`
	Location         string    `json:"location"`
	StartsAt         time.Time `json:"starts_at"`
	EndsAt           time.Time `json:"ends_at"`
	UnsubscribeToken uuid.UUID `json:"unsubscribe_token"`
}

func NewNotice(sub *Subscription, s *slot.Slot, location string, loc *time.Location) Notice {
	w := s.Window()
	return Notice{
		SubscriptionID:   sub.ID(),
		SlotID:           s.ID(),
		Email:            sub.Email(),
		Subject:          Subject(location, w.Start(), loc),
		Location:         location,
		StartsAt:         w.Start(),
		EndsAt:           w.End(),
		UnsubscribeToken: sub.UnsubscribeToken(),
	}
}

// Subject renders the mail subject with the start in local wall-clock time.
func Subject(location string, start time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	local := start.In(loc)
	parts := []string{"Se liberó tu turno —"}
	if l := strings.TrimSpace(location); l != "" {
		parts = append(parts, l)
	}
	parts = append(parts, local.Format("02/01/2006"), local.Format("15:04"))
	return strings.Join(parts, " ")
}
