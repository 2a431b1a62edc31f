package schedule

import (
	"fmt"
	"sort"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/errs"
)

// MaxRangeDays caps the inclusive number of calendar days one run may cover.
const MaxRangeDays = 120

// WorkWeek is Monday through Friday.
var WorkWeek = []int{0, 1, 2, 3, 4}

var ErrEmptyWeekdays = errs.Wrap(slot.ErrInvalidWindow, "at least one weekday is required")

// Recurrence describes a daily window repeated across a date range.
// Dates are calendar days; times are wall-clock in the generation zone.
type Recurrence struct {
	StartDate   Date
	EndDate     Date
	StartTime   TimeOfDay
	EndTime     TimeOfDay
	DurationMin int
	IntervalMin int
	Weekdays    []int
}

// Normalize validates the recurrence and fills defaults. Weekday indices
// outside 0..6 are dropped; when none remain, defaultWeekdays is used, and a
// nil default makes the weekday filter mandatory.
func (r Recurrence) Normalize(defaultWeekdays []int) (Recurrence, error) {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return Recurrence{}, errs.Wrap(slot.ErrInvalidWindow, "start and end dates are required")
	}
	if r.EndDate.Before(r.StartDate) {
		return Recurrence{}, errs.Wrap(slot.ErrInvalidWindow, "end date precedes start date")
	}
	if days := r.StartDate.DaysUntil(r.EndDate) + 1; days > MaxRangeDays {
		return Recurrence{}, errs.Wrap(slot.ErrInvalidWindow, fmt.Sprintf("range spans %d days, at most %d allowed", days, MaxRangeDays))
	}
	if !r.StartTime.Before(r.EndTime) {
		return Recurrence{}, errs.Wrap(slot.ErrInvalidWindow, "daily end time must be after start time")
	}

	duration := time.Duration(r.DurationMin) * time.Minute
	if err := slot.ValidateDuration(duration); err != nil {
		return Recurrence{}, err
	}
	if r.IntervalMin <= 0 {
		r.IntervalMin = r.DurationMin
	}

	r.Weekdays = normalizeWeekdays(r.Weekdays)
	if len(r.Weekdays) == 0 {
		if defaultWeekdays == nil {
			return Recurrence{}, ErrEmptyWeekdays
		}
		r.Weekdays = normalizeWeekdays(defaultWeekdays)
	}
	return r, nil
}

// Candidates expands a normalized recurrence into windows, ordered by start.
func (r Recurrence) Candidates(loc *time.Location) []slot.Window {
	if loc == nil {
		loc = time.UTC
	}
	allowed := make(map[int]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		allowed[wd] = true
	}

	duration := time.Duration(r.DurationMin) * time.Minute
	step := time.Duration(r.IntervalMin) * time.Minute

	var out []slot.Window
	for day := r.StartDate; !r.EndDate.Before(day); day = day.AddDays(1) {
		if !allowed[day.Weekday()] {
			continue
		}
		limit := day.At(r.EndTime, loc)
		for cursor := day.At(r.StartTime, loc); !cursor.Add(duration).After(limit); cursor = cursor.Add(step) {
			w, err := slot.NewWindow(cursor, cursor.Add(duration))
			if err != nil {
				continue
			}
			out = append(out, w)
		}
	}
	return out
}

func normalizeWeekdays(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, wd := range in {
		if wd < 0 || wd > 6 || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	sort.Ints(out)
	return out
}
