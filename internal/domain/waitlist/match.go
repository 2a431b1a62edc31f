package waitlist

import (
	"time"

	"slot-engine/internal/domain/slot"

	"github.com/google/uuid"
)

// Collect merges direct and criteria candidates for a freed slot. Each
// subscription appears at most once, in first-seen order. Candidates that are
// not live, or whose criteria do not match, are dropped.
func Collect(s *slot.Slot, loc *time.Location, direct, byCriteria []*Subscription) []*Subscription {
	seen := make(map[uuid.UUID]struct{}, len(direct)+len(byCriteria))
	out := make([]*Subscription, 0, len(direct)+len(byCriteria))

	add := func(sub *Subscription) {
		if sub == nil || !sub.IsLive() {
			return
		}
		if _, dup := seen[sub.id]; dup {
			return
		}
		seen[sub.id] = struct{}{}
		out = append(out, sub)
	}

	for _, sub := range direct {
		if sub != nil && sub.slotID == s.ID() {
			add(sub)
		}
	}
	for _, sub := range byCriteria {
		if sub == nil || sub.IsDirect() || sub.criteria == nil {
			continue
		}
		if sub.criteria.Matches(s, loc) {
			add(sub)
		}
	}
	return out
}
