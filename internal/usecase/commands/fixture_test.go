//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/infra/holdcache"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/usecase/commands"
	"slot-engine/tests/common/builder"
	"slot-engine/tests/common/memstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const holdTTL = 15 * time.Minute

var (
	complexID = uuid.New()
	fieldID   = uuid.New()
	centerID  = uuid.New()
	profID    = uuid.New()

	haircut = &catalog.Service{
		ID:          uuid.New(),
		Name:        "Corte",
		Category:    catalog.CategoryBeauty,
		DurationMin: 45,
		BasePrice:   decimal.NewNullDecimal(decimal.RequireFromString("8000.00")),
		Currency:    "ARS",
		Active:      true,
	}
	consult = &catalog.Service{
		ID:          uuid.New(),
		Name:        "Consulta",
		Category:    catalog.CategoryProfessionals,
		DurationMin: 60,
		Active:      true,
	}

	fieldOwner = access.Admin("owner@complex.test", []uuid.UUID{complexID}, nil, nil)
	stranger   = access.Admin("other@complex.test", []uuid.UUID{uuid.New()}, nil, nil)
)

func fieldRef() slot.ResourceRef { return slot.Field(fieldID) }

// monday is 2030-03-04, a Monday, at h:m UTC.
func monday(h, m int) time.Time {
	return time.Date(2030, 3, 4, h, m, 0, 0, time.UTC)
}

type recordingEnqueuer struct {
	mu      sync.Mutex
	notices []waitlist.Notice
	err     error
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, n waitlist.Notice) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.notices = append(e.notices, n)
	return nil
}

func (e *recordingEnqueuer) Notices() []waitlist.Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]waitlist.Notice(nil), e.notices...)
}

// flakyMarkers fails the selected operations and delegates the rest.
// beforeRemove, when set, runs ahead of every Remove.
type flakyMarkers struct {
	*holdcache.MemoryMarkers
	putErr       error
	existsErr    error
	beforeRemove func()
	removes      int
}

func (f *flakyMarkers) Put(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.MemoryMarkers.Put(ctx, id, ttl)
}

func (f *flakyMarkers) Remove(ctx context.Context, id uuid.UUID, token string) error {
	f.removes++
	if hook := f.beforeRemove; hook != nil {
		f.beforeRemove = nil
		hook()
	}
	return f.MemoryMarkers.Remove(ctx, id, token)
}

func (f *flakyMarkers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.MemoryMarkers.Exists(ctx, id)
}

var errCacheDown = errors.New("cache unavailable")

type fixture struct {
	store    *memstore.Store
	clock    *clock.MockClock
	markers  *flakyMarkers
	enqueuer *recordingEnqueuer
	matcher  *commands.WaitlistMatcher

	slots         commands.SlotCommands
	expiry        commands.HoldExpiry
	generator     commands.GeneratorCommands
	bookings      commands.DayBookingCommands
	subscriptions commands.SubscriptionCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewMockClock(time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC))
	store := memstore.New().
		AddBookable(catalog.Bookable{
			Ref:      fieldRef(),
			Category: catalog.CategorySports,
			Label:    "Cancha 1",
			Owner:    access.Owner{Kind: access.OwnerComplex, ID: complexID},
			Active:   true,
		}).
		AddBookable(catalog.Bookable{
			Ref:      slot.ServiceAt(haircut.ID, centerID),
			Category: catalog.CategoryBeauty,
			Label:    "Salón Norte",
			Owner:    access.Owner{Kind: access.OwnerBeautyCenter, ID: centerID},
			Active:   true,
			Service:  haircut,
			Offered:  true,
			Center:   &catalog.CenterPolicy{Mode: catalog.CenterFlexible},
		}).
		AddBookable(catalog.Bookable{
			Ref:       slot.ProfessionalService(profID, consult.ID),
			Category:  catalog.CategoryProfessionals,
			Label:     "Lic. Pérez",
			Owner:     access.Owner{Kind: access.OwnerProfessional, ID: profID},
			Active:    true,
			Service:   consult,
			Offered:   true,
			Personnel: &catalog.ProfessionalPolicy{Mode: capacity.ModeClassic},
		})

	markers := &flakyMarkers{MemoryMarkers: holdcache.NewMemoryMarkers(100, clk)}
	enq := &recordingEnqueuer{}
	matcher := commands.NewWaitlistMatcher(store, enq, time.UTC, nil, logger)

	return &fixture{
		store:         store,
		clock:         clk,
		markers:       markers,
		enqueuer:      enq,
		matcher:       matcher,
		slots:         commands.NewSlotUseCase(store, markers, matcher, holdTTL, clk, nil, logger),
		expiry:        commands.NewHoldExpiry(store, markers, matcher, clk, nil, logger),
		generator:     commands.NewGeneratorUseCase(store, commands.GeneratorSettings{Location: time.UTC, MaxRangeDays: 120}, clk, nil, logger),
		bookings:      commands.NewDayBookingUseCase(store, time.UTC, clk, nil, logger),
		subscriptions: commands.NewSubscriptionUseCase(store, markers, matcher, false, clk, nil, logger),
	}
}

// seedSlot stores a field slot starting at monday(h, 0) for one hour.
func (f *fixture) seedSlot(t *testing.T, h int, status slot.Status) *slot.Slot {
	t.Helper()
	s := builder.NewSlotBuilder().
		WithResource(fieldRef()).
		WithWindow(monday(h, 0), time.Hour).
		WithStatus(status).
		MustBuild()
	f.store.PutSlot(s)
	if status == slot.StatusHolding {
		_, err := f.markers.MemoryMarkers.Put(context.Background(), s.ID(), holdTTL)
		require.NoError(t, err)
	}
	return s
}

func (f *fixture) subscribeDirect(t *testing.T, email string, slotID uuid.UUID) *waitlist.Subscription {
	t.Helper()
	sub, err := waitlist.NewDirect(email, slotID, false, f.clock.Now())
	require.NoError(t, err)
	f.store.PutSubscription(sub)
	return sub
}
