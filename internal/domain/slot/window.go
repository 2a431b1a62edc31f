package slot

import (
	"fmt"
	"time"

	"slot-engine/internal/pkg/errs"
)

const (
	MinDuration = 15 * time.Minute
	MaxDuration = 360 * time.Minute
)

// Window is a half-open interval [start, end).
type Window struct {
	start time.Time
	end   time.Time
}

func NewWindow(start, end time.Time) (Window, error) {
	if !start.Before(end) {
		return Window{}, errs.Wrap(ErrInvalidWindow, "start must be before end")
	}
	return Window{start: start.UTC(), end: end.UTC()}, nil
}

// NewBoundedWindow additionally enforces the bookable duration range.
func NewBoundedWindow(start time.Time, duration time.Duration) (Window, error) {
	if err := ValidateDuration(duration); err != nil {
		return Window{}, err
	}
	return NewWindow(start, start.Add(duration))
}

func ValidateDuration(d time.Duration) error {
	if d < MinDuration || d > MaxDuration {
		return errs.Wrap(ErrInvalidWindow, fmt.Sprintf("duration %s outside [%s, %s]", d, MinDuration, MaxDuration))
	}
	return nil
}

func (w Window) Start() time.Time        { return w.start }
func (w Window) End() time.Time          { return w.end }
func (w Window) Duration() time.Duration { return w.end.Sub(w.start) }

// Overlaps uses half-open semantics: [9,10) and [10,11) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.start.Before(other.end) && w.end.After(other.start)
}

func (w Window) Contains(other Window) bool {
	return !other.start.Before(w.start) && !other.end.After(w.end)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s,%s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}
