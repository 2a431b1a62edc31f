package slot

// Conflicts reports whether candidate collides with an occupying slot
// bound to key. Callers must evaluate it inside the transaction that
// inserts the candidate.
func Conflicts(key ResourceKey, candidate Window, existing []*Slot) bool {
	return FirstConflict(key, candidate, existing) != nil
}

func FirstConflict(key ResourceKey, candidate Window, existing []*Slot) *Slot {
	for _, s := range existing {
		if s == nil || s.Key() != key || !s.status.Occupies() {
			continue
		}
		if s.window.Overlaps(candidate) {
			return s
		}
	}
	return nil
}

// Occupancy accumulates accepted windows for one resource key so a batch of
// candidates can be checked against each other as well as stored slots.
type Occupancy struct {
	key     ResourceKey
	windows []Window
}

func NewOccupancy(key ResourceKey, existing []*Slot) *Occupancy {
	o := &Occupancy{key: key}
	for _, s := range existing {
		if s != nil && s.Key() == key && s.status.Occupies() {
			o.windows = append(o.windows, s.window)
		}
	}
	return o
}

// TryAdd records candidate and reports true when it overlaps nothing.
func (o *Occupancy) TryAdd(candidate Window) bool {
	for _, w := range o.windows {
		if w.Overlaps(candidate) {
			return false
		}
	}
	o.windows = append(o.windows, candidate)
	return true
}

func (o *Occupancy) Len() int { return len(o.windows) }
