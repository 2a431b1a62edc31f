package queries

import (
	"context"
	"fmt"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// MaxCalendarDays caps the inclusive range of one calendar request.
const MaxCalendarDays = 31

var ErrProfessionalNotFound = errs.New("professional not found")

type CapacityReadStore interface {
	FindProfessional(ctx context.Context, id uuid.UUID) (*catalog.Professional, error)
	// ListDays returns stored rows for days in [from, to], ordered by day.
	ListDays(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*capacity.DailyAvailability, error)
}

type CapacityQueries interface {
	DayCalendar(ctx context.Context, professionalID uuid.UUID, from, to schedule.Date) (*DayCalendarView, error)
}

type capacityQueriesImpl struct {
	readStore CapacityReadStore
}

func NewCapacityQueries(readStore CapacityReadStore) CapacityQueries {
	return &capacityQueriesImpl{readStore: readStore}
}

// DayCalendar reports capacity per day. Days without a stored row show the
// professional's quota with nothing reserved.
func (q *capacityQueriesImpl) DayCalendar(ctx context.Context, professionalID uuid.UUID, from, to schedule.Date) (*DayCalendarView, error) {
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, errs.Wrap(slot.ErrInvalidWindow, "calendar range is inverted or incomplete")
	}
	if days := from.DaysUntil(to) + 1; days > MaxCalendarDays {
		return nil, errs.Wrap(slot.ErrInvalidWindow, fmt.Sprintf("calendar spans %d days, at most %d allowed", days, MaxCalendarDays))
	}

	prof, err := q.readStore.FindProfessional(ctx, professionalID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrProfessionalNotFound)
		}
		return nil, err
	}
	if err := prof.CheckPerDay(); err != nil {
		return nil, err
	}

	rows, err := q.readStore.ListDays(ctx, professionalID, dateUTC(from), dateUTC(to))
	if err != nil {
		return nil, err
	}
	stored := make(map[schedule.Date]*capacity.DailyAvailability, len(rows))
	for _, d := range rows {
		stored[schedule.DateOf(d.Day())] = d
	}

	view := &DayCalendarView{ProfessionalID: professionalID, DailyQuota: prof.Policy.DailyQuota}
	for d := from; !to.Before(d); d = d.AddDays(1) {
		day := DayCapacityView{Date: d, Capacity: prof.Policy.DailyQuota, Remaining: prof.Policy.DailyQuota}
		if row, ok := stored[d]; ok {
			day.Capacity = row.Capacity()
			day.Reserved = row.ReservedCount()
			day.Remaining = row.Remaining()
		}
		view.Days = append(view.Days, day)
	}
	return view, nil
}

func dateUTC(d schedule.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
