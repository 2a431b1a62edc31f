package queries

import (
	"context"
	"time"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../../../tests/mock/queries/mock_queries.go -package=queriesmock slot-engine/internal/usecase/queries SlotQueries,CapacityQueries

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 50
)

var (
	ErrSlotNotFound  = errs.New("slot not found")
	ErrInvalidFilter = errs.New("invalid slot filter")
)

// SlotFilter narrows slot listings. Zero values mean "any".
type SlotFilter struct {
	Date       *schedule.Date
	Category   catalog.Category
	Status     slot.Status
	ResourceID uuid.UUID
	Page       int
	Limit      int
}

func (f SlotFilter) validate() error {
	if f.Category != "" && !f.Category.IsValid() {
		return errs.Wrap(ErrInvalidFilter, "unknown category")
	}
	if f.Status != "" && !f.Status.IsValid() {
		return errs.Wrap(ErrInvalidFilter, "unknown status")
	}
	return nil
}

func (f SlotFilter) pagination() (page, limit int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// SlotListQuery is the store-level form of a listing. A zero To leaves the
// range open; a zero Limit returns every row.
type SlotListQuery struct {
	From       time.Time
	To         time.Time
	Category   catalog.Category
	Status     slot.Status
	ResourceID uuid.UUID
	Limit      int
	Offset     int
}

type SlotReadStore interface {
	FindSlot(ctx context.Context, id uuid.UUID) (*slot.Slot, error)
	// ListSlots returns one page ordered by start and the total row count.
	ListSlots(ctx context.Context, q SlotListQuery) ([]*slot.Slot, int, error)
	// ListHolding returns up to limit HOLDING slots, oldest hold first.
	ListHolding(ctx context.Context, limit int) ([]*slot.Slot, error)
}

// HoldNormalizer reverts stale holds among listed slots.
type HoldNormalizer interface {
	OnSlotListed(ctx context.Context, slots []*slot.Slot) []*slot.Slot
}

type SlotQueries interface {
	ListSlots(ctx context.Context, f SlotFilter) (*SlotPage, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*SlotView, error)
	// WeekSummary groups the Monday-based week containing day by calendar day.
	WeekSummary(ctx context.Context, day schedule.Date, f SlotFilter) (*WeekView, error)
}

type slotQueriesImpl struct {
	readStore SlotReadStore
	expiry    HoldNormalizer
	loc       *time.Location
	clock     clock.Clock
}

func NewSlotQueries(readStore SlotReadStore, expiry HoldNormalizer, loc *time.Location, clk clock.Clock) SlotQueries {
	if loc == nil {
		loc = time.UTC
	}
	return &slotQueriesImpl{
		readStore: readStore,
		expiry:    expiry,
		loc:       loc,
		clock:     clk,
	}
}

func (q *slotQueriesImpl) ListSlots(ctx context.Context, f SlotFilter) (*SlotPage, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	page, limit := f.pagination()

	lq := SlotListQuery{
		From:       q.clock.Now(),
		Category:   f.Category,
		Status:     f.Status,
		ResourceID: f.ResourceID,
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}
	if f.Date != nil {
		dayStart, dayEnd := f.Date.Bounds(q.loc)
		if dayStart.After(lq.From) {
			lq.From = dayStart
		}
		lq.To = dayEnd
	}

	slots, total, err := q.readStore.ListSlots(ctx, lq)
	if err != nil {
		return nil, err
	}
	// Rows dropped here no longer match the status filter. Stale holds on
	// other pages are still counted until a read reaches them.
	listed := len(slots)
	slots = q.normalize(ctx, slots, f.Status)
	total = max(total-(listed-len(slots)), len(slots))

	return &SlotPage{
		Items:   toSlotViews(slots),
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasNext: page*limit < total,
		HasPrev: page > 1,
	}, nil
}

func (q *slotQueriesImpl) GetSlot(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	s, err := q.readStore.FindSlot(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrSlotNotFound)
		}
		return nil, err
	}
	fresh := q.normalize(ctx, []*slot.Slot{s}, "")
	view := NewSlotView(fresh[0])
	return &view, nil
}

func (q *slotQueriesImpl) WeekSummary(ctx context.Context, day schedule.Date, f SlotFilter) (*WeekView, error) {
	if day.IsZero() {
		day = schedule.DateOf(q.clock.Now().In(q.loc))
	}
	if err := f.validate(); err != nil {
		return nil, err
	}

	weekStart := day.StartOfWeek()
	weekEnd := weekStart.AddDays(6)
	from, _ := weekStart.Bounds(q.loc)
	_, to := weekEnd.Bounds(q.loc)

	slots, _, err := q.readStore.ListSlots(ctx, SlotListQuery{
		From:       from,
		To:         to,
		Category:   f.Category,
		Status:     f.Status,
		ResourceID: f.ResourceID,
	})
	if err != nil {
		return nil, err
	}
	slots = q.normalize(ctx, slots, f.Status)

	view := &WeekView{WeekStart: weekStart, WeekEnd: weekEnd, Total: len(slots)}
	index := make(map[schedule.Date]int, 7)
	for i := 0; i < 7; i++ {
		d := weekStart.AddDays(i)
		index[d] = i
		view.Days = append(view.Days, DayGroup{Date: d, Counts: emptyCounts(), Slots: []SlotView{}})
	}
	for _, s := range slots {
		i, ok := index[schedule.DateOf(s.Window().Start().In(q.loc))]
		if !ok {
			continue
		}
		view.Days[i].Slots = append(view.Days[i].Slots, NewSlotView(s))
		view.Days[i].Counts[s.Status().String()]++
	}
	return view, nil
}

// normalize runs lazy expiry and drops slots that no longer match status.
func (q *slotQueriesImpl) normalize(ctx context.Context, slots []*slot.Slot, status slot.Status) []*slot.Slot {
	if q.expiry != nil {
		slots = q.expiry.OnSlotListed(ctx, slots)
	}
	if status == "" {
		return slots
	}
	out := slots[:0:0]
	for _, s := range slots {
		if s.Status() == status {
			out = append(out, s)
		}
	}
	return out
}

func emptyCounts() map[string]int {
	return map[string]int{
		slot.StatusAvailable.String(): 0,
		slot.StatusHolding.String():   0,
		slot.StatusReserved.String():  0,
		slot.StatusBlocked.String():   0,
	}
}
