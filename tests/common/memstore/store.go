//go:build unit || e2e || integration

// Package memstore is an in-memory shared.UnitOfWork for use-case tests.
// Transactions are serialised and commit atomically; a failing fn leaves the
// store untouched.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/infra"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type dayKey struct {
	professionalID uuid.UUID
	day            time.Time
}

type state struct {
	slots        map[uuid.UUID]*slot.Slot
	availability map[dayKey]*capacity.DailyAvailability
	bookings     []capacity.DayBooking
	subs         map[uuid.UUID]*waitlist.Subscription
}

type Store struct {
	mu    sync.Mutex
	state state

	bookables     map[slot.ResourceKey]*catalog.Bookable
	professionals map[uuid.UUID]*catalog.Professional

	// Locks records every resource key locked, in order.
	Locks []slot.ResourceKey
	// Commits counts successful write transactions.
	Commits int
}

var _ shared.UnitOfWork = (*Store)(nil)

func New() *Store {
	return &Store{
		state: state{
			slots:        map[uuid.UUID]*slot.Slot{},
			availability: map[dayKey]*capacity.DailyAvailability{},
			subs:         map[uuid.UUID]*waitlist.Subscription{},
		},
		bookables:     map[slot.ResourceKey]*catalog.Bookable{},
		professionals: map[uuid.UUID]*catalog.Professional{},
	}
}

func (s *Store) AddBookable(b catalog.Bookable) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookables[b.Ref.Key()] = &b
	return s
}

func (s *Store) AddProfessional(p catalog.Professional) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.professionals[p.ID] = &p
	return s
}

func (s *Store) PutSlot(sl *slot.Slot) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.slots[sl.ID()] = cloneSlot(sl)
	return s
}

func (s *Store) PutSubscription(sub *waitlist.Subscription) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.subs[sub.ID()] = cloneSubscription(sub)
	return s
}

func (s *Store) Slot(id uuid.UUID) *slot.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.state.slots[id]; ok {
		return cloneSlot(sl)
	}
	return nil
}

// Slots returns every stored slot ordered by start.
func (s *Store) Slots() []*slot.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*slot.Slot, 0, len(s.state.slots))
	for _, sl := range s.state.slots {
		out = append(out, cloneSlot(sl))
	}
	sortByStart(out)
	return out
}

func (s *Store) Availability(professionalID uuid.UUID, day time.Time) *capacity.DailyAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.state.availability[dayKey{professionalID, capacity.TruncateDay(day)}]; ok {
		return cloneAvailability(d)
	}
	return nil
}

func (s *Store) DayBookings() []capacity.DayBooking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]capacity.DayBooking(nil), s.state.bookings...)
}

func (s *Store) Subscriptions() []*waitlist.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*waitlist.Subscription, 0, len(s.state.subs))
	for _, sub := range s.state.subs {
		out = append(out, cloneSubscription(sub))
	}
	return out
}

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, st: s.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.state = tx.st
	s.Locks = append(s.Locks, tx.locks...)
	s.Commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, &memTx{store: s, st: s.state.clone(), readOnly: true})
}

func (st state) clone() state {
	out := state{
		slots:        make(map[uuid.UUID]*slot.Slot, len(st.slots)),
		availability: make(map[dayKey]*capacity.DailyAvailability, len(st.availability)),
		bookings:     append([]capacity.DayBooking(nil), st.bookings...),
		subs:         make(map[uuid.UUID]*waitlist.Subscription, len(st.subs)),
	}
	for id, sl := range st.slots {
		out.slots[id] = cloneSlot(sl)
	}
	for k, d := range st.availability {
		out.availability[k] = cloneAvailability(d)
	}
	for id, sub := range st.subs {
		out.subs[id] = cloneSubscription(sub)
	}
	return out
}

type memTx struct {
	store    *Store
	st       state
	locks    []slot.ResourceKey
	readOnly bool
}

func (t *memTx) Slots() shared.SlotRepository                          { return slotRepo{t} }
func (t *memTx) DailyAvailability() shared.DailyAvailabilityRepository { return availabilityRepo{t} }
func (t *memTx) DayBookings() shared.DayBookingRepository              { return bookingRepo{t} }
func (t *memTx) Subscriptions() shared.SubscriptionRepository          { return subscriptionRepo{t} }
func (t *memTx) Catalog() shared.CatalogReader                         { return catalogReader{t} }

func (t *memTx) LockResource(_ context.Context, key slot.ResourceKey) error {
	t.locks = append(t.locks, key)
	return nil
}

func notFound(msg string) error {
	return infra.WrapRepoErr(nil, infra.KindNotFound, msg, nil)
}

func readOnlyViolation() error {
	return infra.WrapRepoErr(nil, infra.KindDBFailure, "write in read-only transaction", nil)
}

type slotRepo struct{ tx *memTx }

func (r slotRepo) Get(_ context.Context, id uuid.UUID) (*slot.Slot, error) {
	sl, ok := r.tx.st.slots[id]
	if !ok {
		return nil, notFound("slot not found")
	}
	return cloneSlot(sl), nil
}

func (r slotRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	return r.Get(ctx, id)
}

func (r slotRepo) ListByKeyInRange(_ context.Context, key slot.ResourceKey, from, to time.Time) ([]*slot.Slot, error) {
	var out []*slot.Slot
	for _, sl := range r.tx.st.slots {
		w := sl.Window()
		if sl.Key() == key && w.Start().Before(to) && w.End().After(from) {
			out = append(out, cloneSlot(sl))
		}
	}
	sortByStart(out)
	return out, nil
}

func (r slotRepo) Insert(_ context.Context, sl *slot.Slot) error {
	if r.tx.readOnly {
		return readOnlyViolation()
	}
	if _, dup := r.tx.st.slots[sl.ID()]; dup {
		return infra.WrapRepoErr(nil, infra.KindDuplicateKey, "slot already exists", nil)
	}
	if sl.Status().Occupies() && slot.Conflicts(sl.Key(), sl.Window(), r.occupying(sl.Key())) {
		return infra.WrapRepoErr(nil, infra.KindExclusionViolated, "slot overlaps", nil)
	}
	r.tx.st.slots[sl.ID()] = cloneSlot(sl)
	return nil
}

func (r slotRepo) InsertMany(ctx context.Context, slots []*slot.Slot) (int64, error) {
	for _, sl := range slots {
		if err := r.Insert(ctx, sl); err != nil {
			return 0, err
		}
	}
	return int64(len(slots)), nil
}

func (r slotRepo) Update(_ context.Context, sl *slot.Slot) error {
	if r.tx.readOnly {
		return readOnlyViolation()
	}
	if _, ok := r.tx.st.slots[sl.ID()]; !ok {
		return notFound("slot not found")
	}
	r.tx.st.slots[sl.ID()] = cloneSlot(sl)
	return nil
}

func (r slotRepo) occupying(key slot.ResourceKey) []*slot.Slot {
	var out []*slot.Slot
	for _, sl := range r.tx.st.slots {
		if sl.Key() == key {
			out = append(out, sl)
		}
	}
	return out
}

type availabilityRepo struct{ tx *memTx }

func (r availabilityRepo) EnsureForUpdate(_ context.Context, professionalID uuid.UUID, day time.Time, capacityLimit int) (*capacity.DailyAvailability, error) {
	k := dayKey{professionalID, capacity.TruncateDay(day)}
	d, ok := r.tx.st.availability[k]
	if !ok {
		created, err := capacity.NewDailyAvailability(uuid.New(), professionalID, day, capacityLimit)
		if err != nil {
			return nil, err
		}
		r.tx.st.availability[k] = created
		d = created
	}
	return cloneAvailability(d), nil
}

func (r availabilityRepo) Save(_ context.Context, d *capacity.DailyAvailability) error {
	if d.ReservedCount() > d.Capacity() {
		return infra.WrapRepoErr(nil, infra.KindConflict, "reserved count exceeds capacity", nil)
	}
	r.tx.st.availability[dayKey{d.ProfessionalID(), d.Day()}] = cloneAvailability(d)
	return nil
}

type bookingRepo struct{ tx *memTx }

func (r bookingRepo) Insert(_ context.Context, b capacity.DayBooking) error {
	r.tx.st.bookings = append(r.tx.st.bookings, b)
	return nil
}

type subscriptionRepo struct{ tx *memTx }

func (r subscriptionRepo) Insert(_ context.Context, sub *waitlist.Subscription) error {
	if sub.IsDirect() && sub.IsLive() {
		for _, other := range r.tx.st.subs {
			if other.IsDirect() && other.IsLive() && other.SlotID() == sub.SlotID() && other.Email() == sub.Email() {
				return infra.WrapRepoErr(nil, infra.KindDuplicateKey, "duplicate direct subscription", nil)
			}
		}
	}
	r.tx.st.subs[sub.ID()] = cloneSubscription(sub)
	return nil
}

func (r subscriptionRepo) Update(_ context.Context, sub *waitlist.Subscription) error {
	if _, ok := r.tx.st.subs[sub.ID()]; !ok {
		return notFound("subscription not found")
	}
	r.tx.st.subs[sub.ID()] = cloneSubscription(sub)
	return nil
}

func (r subscriptionRepo) GetByToken(_ context.Context, token uuid.UUID) (*waitlist.Subscription, error) {
	for _, sub := range r.tx.st.subs {
		if sub.UnsubscribeToken() == token {
			return cloneSubscription(sub), nil
		}
	}
	return nil, notFound("subscription not found")
}

func (r subscriptionRepo) ExistsActiveDirect(_ context.Context, email string, slotID uuid.UUID) (bool, error) {
	for _, sub := range r.tx.st.subs {
		if sub.SlotID() == slotID && sub.Email() == email && sub.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (r subscriptionRepo) ListDirect(_ context.Context, slotID uuid.UUID) ([]*waitlist.Subscription, error) {
	var out []*waitlist.Subscription
	for _, sub := range r.tx.st.subs {
		if sub.SlotID() == slotID && sub.IsLive() {
			out = append(out, cloneSubscription(sub))
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r subscriptionRepo) ListByResourceWindow(_ context.Context, fieldID, serviceID uuid.UUID, start, end time.Time) ([]*waitlist.Subscription, error) {
	var out []*waitlist.Subscription
	for _, sub := range r.tx.st.subs {
		c := sub.Criteria()
		if sub.IsDirect() || c == nil || !sub.IsLive() {
			continue
		}
		onResource := (fieldID != uuid.Nil && c.FieldID == fieldID) || (serviceID != uuid.Nil && c.ServiceID == serviceID)
		if onResource && !c.StartWindow.After(start) && !c.EndWindow.Before(end) {
			out = append(out, cloneSubscription(sub))
		}
	}
	sortByCreated(out)
	return out, nil
}

type catalogReader struct{ tx *memTx }

func (r catalogReader) Resolve(_ context.Context, ref slot.ResourceRef) (*catalog.Bookable, error) {
	b, ok := r.tx.store.bookables[ref.Key()]
	if !ok {
		return nil, notFound("bookable not found")
	}
	out := *b
	return &out, nil
}

func (r catalogReader) Professional(_ context.Context, id uuid.UUID) (*catalog.Professional, error) {
	p, ok := r.tx.store.professionals[id]
	if !ok {
		return nil, notFound("professional not found")
	}
	out := *p
	return &out, nil
}

func cloneSlot(s *slot.Slot) *slot.Slot {
	var heldAt *time.Time
	if s.HeldAt() != nil {
		h := *s.HeldAt()
		heldAt = &h
	}
	out, err := slot.Restore(slot.Snapshot{
		ID:              s.ID(),
		Resource:        s.Resource(),
		Start:           s.Window().Start(),
		End:             s.Window().End(),
		Status:          s.Status(),
		ReservationCode: s.ReservationCode(),
		Price:           s.Price(),
		Currency:        s.Currency(),
		HeldAt:          heldAt,
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return out
}

func cloneAvailability(d *capacity.DailyAvailability) *capacity.DailyAvailability {
	out, err := capacity.Restore(d.ID(), d.ProfessionalID(), d.Day(), d.Capacity(), d.ReservedCount())
	if err != nil {
		panic(err)
	}
	return out
}

func cloneSubscription(sub *waitlist.Subscription) *waitlist.Subscription {
	var c *waitlist.Criteria
	if sub.Criteria() != nil {
		cc := *sub.Criteria()
		c = &cc
	}
	out, err := waitlist.Restore(waitlist.Snapshot{
		ID:               sub.ID(),
		Email:            sub.Email(),
		SlotID:           sub.SlotID(),
		Criteria:         c,
		Status:           sub.Status(),
		IsActive:         sub.IsActive(),
		UnsubscribeToken: sub.UnsubscribeToken(),
		CreatedAt:        sub.CreatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return out
}

func sortByStart(slots []*slot.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Window().Start().Before(slots[j].Window().Start())
	})
}

func sortByCreated(subs []*waitlist.Subscription) {
	sort.Slice(subs, func(i, j int) bool {
		if subs[i].CreatedAt().Equal(subs[j].CreatedAt()) {
			return subs[i].ID().String() < subs[j].ID().String()
		}
		return subs[i].CreatedAt().Before(subs[j].CreatedAt())
	})
}
