package commands

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// WaitlistMatcher enqueues one notice per live subscription matching a slot
// that just became available. Failures are logged and never reach the
// caller that released the slot.
type WaitlistMatcher struct {
	uow      shared.UnitOfWork
	enqueuer shared.Enqueuer
	loc      *time.Location
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

var _ ReleaseListener = (*WaitlistMatcher)(nil)

func NewWaitlistMatcher(uow shared.UnitOfWork, enqueuer shared.Enqueuer, loc *time.Location, m *metrics.Metrics, logger *slog.Logger) *WaitlistMatcher {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WaitlistMatcher{uow: uow, enqueuer: enqueuer, loc: loc, metrics: m, logger: logger}
}

func (w *WaitlistMatcher) SlotReleased(ctx context.Context, slotID uuid.UUID) {
	if _, err := w.Match(ctx, slotID); err != nil {
		w.logger.Error("waitlist matching failed", "slot_id", slotID.String(), "error", err.Error())
	}
}

// Match re-reads the slot and, when it is still AVAILABLE, enqueues a notice
// for every matching subscription. It returns how many notices were queued.
func (w *WaitlistMatcher) Match(ctx context.Context, slotID uuid.UUID) (int, error) {
	var (
		s       *slot.Slot
		label   string
		matches []*waitlist.Subscription
	)
	err := w.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, label, matches = nil, "", nil
		current, err := tx.Slots().Get(ctx, slotID)
		if err != nil {
			return err
		}
		if current.Status() != slot.StatusAvailable {
			return nil
		}
		s = current

		ref := current.Resource()
		direct, err := tx.Subscriptions().ListDirect(ctx, slotID)
		if err != nil {
			return err
		}
		win := current.Window()
		byCriteria, err := tx.Subscriptions().ListByResourceWindow(ctx, ref.FieldID(), ref.ServiceID(), win.Start(), win.End())
		if err != nil {
			return err
		}
		matches = waitlist.Collect(current, w.loc, direct, byCriteria)
		if len(matches) == 0 {
			return nil
		}

		b, err := tx.Catalog().Resolve(ctx, ref)
		if err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
		} else {
			label = b.Label
		}
		return nil
	})
	if err != nil {
		return 0, translateRepoErr(err, ErrSlotNotFound)
	}
	if s == nil || len(matches) == 0 {
		return 0, nil
	}

	queued := 0
	for _, sub := range matches {
		notice := waitlist.NewNotice(sub, s, label, w.loc)
		if err := w.enqueuer.Enqueue(ctx, notice); err != nil {
			w.metrics.Notification("failed")
			w.logger.Error("failed to enqueue waitlist notice",
				"slot_id", slotID.String(),
				"subscription_id", sub.ID().String(),
				"error", err.Error())
			continue
		}
		w.metrics.Notification("enqueued")
		queued++
	}
	w.logger.Info("waitlist notified", "slot_id", slotID.String(), "matches", len(matches), "queued", queued)
	return queued, nil
}
