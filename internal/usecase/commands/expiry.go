package commands

import (
	"context"
	"log/slog"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// ReleaseListener is told about slots that went back to AVAILABLE after being
// held or reserved. It is called after the releasing transaction commits.
type ReleaseListener interface {
	SlotReleased(ctx context.Context, slotID uuid.UUID)
}

type HoldExpiry interface {
	// OnSlotListed reverts stale holds among slots surfaced by a read path and
	// returns the slice with reverted slots replaced by their fresh state.
	OnSlotListed(ctx context.Context, slots []*slot.Slot) []*slot.Slot
	// Sweep does the same for the background sweeper and reports how many
	// holds it reverted.
	Sweep(ctx context.Context, slots []*slot.Slot) int
}

type holdExpiryImpl struct {
	uow      shared.UnitOfWork
	markers  shared.HoldMarkers
	listener ReleaseListener
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewHoldExpiry(
	uow shared.UnitOfWork,
	markers shared.HoldMarkers,
	listener ReleaseListener,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) HoldExpiry {
	if logger == nil {
		logger = slog.Default()
	}
	return &holdExpiryImpl{
		uow:      uow,
		markers:  markers,
		listener: listener,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

func (h *holdExpiryImpl) OnSlotListed(ctx context.Context, slots []*slot.Slot) []*slot.Slot {
	out, _ := h.normalize(ctx, slots, metrics.ExpirySourceLazy)
	return out
}

func (h *holdExpiryImpl) Sweep(ctx context.Context, slots []*slot.Slot) int {
	_, n := h.normalize(ctx, slots, metrics.ExpirySourceSweeper)
	return n
}

func (h *holdExpiryImpl) normalize(ctx context.Context, slots []*slot.Slot, source string) ([]*slot.Slot, int) {
	if len(slots) == 0 {
		return slots, 0
	}
	out := make([]*slot.Slot, len(slots))
	copy(out, slots)

	reverted := 0
	for i, s := range slots {
		if s == nil || !s.IsHolding() {
			continue
		}
		fresh, expired := h.expireIfStale(ctx, s.ID(), source)
		if fresh != nil {
			out[i] = fresh
		}
		if expired {
			reverted++
		}
	}
	return out, reverted
}

// expireIfStale re-checks the hold under the row lock so concurrent readers
// revert it once. It returns the slot's current state when it was reloaded.
func (h *holdExpiryImpl) expireIfStale(ctx context.Context, slotID uuid.UUID, source string) (*slot.Slot, bool) {
	live, err := h.markers.Exists(ctx, slotID)
	if err != nil {
		h.logger.Warn("hold marker check failed, keeping hold", "slot_id", slotID.String(), "error", err.Error())
		return nil, false
	}
	if live {
		return nil, false
	}

	var (
		current *slot.Slot
		expired bool
	)
	err = h.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		current, expired = nil, false
		s, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		current = s
		expired, err = expireLocked(ctx, tx, h.markers, s, h.clock, h.logger)
		return err
	})
	if err != nil {
		h.logger.Error("failed to revert stale hold", "slot_id", slotID.String(), "error", err.Error())
		return nil, false
	}
	if expired {
		h.metrics.HoldExpired(source)
		h.logger.Info("stale hold reverted", "slot_id", slotID.String(), "source", source)
		if h.listener != nil {
			h.listener.SlotReleased(ctx, slotID)
		}
	}
	return current, expired
}

// expireLocked reverts s when it is holding without a live marker. s must be
// locked by the caller's transaction. Marker read failures count as a live
// hold.
func expireLocked(ctx context.Context, tx shared.Tx, markers shared.HoldMarkers, s *slot.Slot, clk clock.Clock, logger *slog.Logger) (bool, error) {
	if !s.IsHolding() {
		return false, nil
	}
	live, err := markers.Exists(ctx, s.ID())
	if err != nil {
		logger.Warn("hold marker check failed, keeping hold", "slot_id", s.ID().String(), "error", err.Error())
		return false, nil
	}
	if live {
		return false, nil
	}
	if !s.ExpireHold(clk.Now()) {
		return false, nil
	}
	if err := tx.Slots().Update(ctx, s); err != nil {
		return false, err
	}
	return true, nil
}
