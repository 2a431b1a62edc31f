package commands

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=../../../tests/mock/commands/mock_commands.go -package=commandsmock slot-engine/internal/usecase/commands SlotCommands,GeneratorCommands,DayBookingCommands,SubscriptionCommands

type ReleaseOptions struct {
	// AllowBlocked reopens BLOCKED slots. The overlap check runs again.
	AllowBlocked bool
}

type CreateSlotInput struct {
	Resource slot.ResourceRef
	Start    time.Time
	// End is ignored for service-bound resources; the service duration wins.
	End      time.Time
	Price    decimal.NullDecimal
	Currency string
}

type SlotCommands interface {
	PlaceHold(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error)
	Confirm(ctx context.Context, scope access.Scope, slotID uuid.UUID) (*slot.Slot, error)
	Release(ctx context.Context, scope access.Scope, slotID uuid.UUID, opts ReleaseOptions) (*slot.Slot, error)
	Block(ctx context.Context, scope access.Scope, slotID uuid.UUID) (*slot.Slot, error)
	CreateSlot(ctx context.Context, scope access.Scope, in CreateSlotInput) (*slot.Slot, error)
}

type slotUseCaseImpl struct {
	uow      shared.UnitOfWork
	markers  shared.HoldMarkers
	listener ReleaseListener
	holdTTL  time.Duration
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewSlotUseCase(
	uow shared.UnitOfWork,
	markers shared.HoldMarkers,
	listener ReleaseListener,
	holdTTL time.Duration,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) SlotCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &slotUseCaseImpl{
		uow:      uow,
		markers:  markers,
		listener: listener,
		holdTTL:  holdTTL,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

func (uc *slotUseCaseImpl) PlaceHold(ctx context.Context, slotID uuid.UUID) (*slot.Slot, error) {
	var (
		held    *slot.Slot
		expired bool
		token   string
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		held, expired = nil, false
		s, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if expired, err = expireLocked(ctx, tx, uc.markers, s, uc.clock, uc.logger); err != nil {
			return err
		}
		if err := s.Hold(uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Slots().Update(ctx, s); err != nil {
			return err
		}
		if token, err = uc.markers.Put(ctx, slotID, uc.holdTTL); err != nil {
			return errs.Mark(err, ErrHoldMarkerFailed)
		}
		held = s
		return nil
	})
	if err != nil {
		if token != "" {
			uc.removeMarker(ctx, slotID, token)
		}
		return nil, translateRepoErr(err, ErrSlotNotFound)
	}

	if expired {
		uc.metrics.HoldExpired(metrics.ExpirySourceLazy)
	}
	uc.metrics.HoldPlaced()
	uc.logger.Info("hold placed", "slot_id", slotID.String(), "ttl", uc.holdTTL.String())
	return held, nil
}

func (uc *slotUseCaseImpl) Confirm(ctx context.Context, scope access.Scope, slotID uuid.UUID) (*slot.Slot, error) {
	var (
		confirmed *slot.Slot
		expired   bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		confirmed, expired = nil, false
		s, err := uc.lockManaged(ctx, tx, scope, slotID)
		if err != nil {
			return err
		}
		if expired, err = expireLocked(ctx, tx, uc.markers, s, uc.clock, uc.logger); err != nil {
			return err
		}
		if expired {
			return nil
		}
		if err := s.Confirm(slot.NewReservationCode(), uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Slots().Update(ctx, s); err != nil {
			return err
		}
		confirmed = s
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrSlotNotFound)
	}

	if expired {
		uc.metrics.HoldExpired(metrics.ExpirySourceLazy)
		uc.notifyReleased(ctx, slotID)
		return nil, errs.Mark(slot.ErrInvalidTransition, ErrHoldExpired)
	}

	uc.metrics.Transition(slot.StatusReserved.String())
	uc.logger.Info("slot confirmed", "slot_id", slotID.String(), "subject", scope.Subject())
	return confirmed, nil
}

func (uc *slotUseCaseImpl) Release(ctx context.Context, scope access.Scope, slotID uuid.UUID, opts ReleaseOptions) (*slot.Slot, error) {
	var (
		released *slot.Slot
		prev     slot.Status
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		released = nil
		s, err := uc.lockManaged(ctx, tx, scope, slotID)
		if err != nil {
			return err
		}
		if s.Status() == slot.StatusBlocked && opts.AllowBlocked {
			if err := uc.checkFree(ctx, tx, s.Key(), s.Window()); err != nil {
				return err
			}
		}
		if prev, err = s.Release(opts.AllowBlocked, uc.clock.Now()); err != nil {
			return err
		}
		released = s
		if prev == slot.StatusAvailable {
			return nil
		}
		return tx.Slots().Update(ctx, s)
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrSlotNotFound)
	}

	if prev != slot.StatusAvailable {
		uc.metrics.Transition(slot.StatusAvailable.String())
		uc.logger.Info("slot released", "slot_id", slotID.String(), "from", prev.String(), "subject", scope.Subject())
	}
	if slot.FreesUp(prev) {
		uc.notifyReleased(ctx, slotID)
	}
	return released, nil
}

func (uc *slotUseCaseImpl) Block(ctx context.Context, scope access.Scope, slotID uuid.UUID) (*slot.Slot, error) {
	var (
		blocked *slot.Slot
		expired bool
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		blocked, expired = nil, false
		s, err := uc.lockManaged(ctx, tx, scope, slotID)
		if err != nil {
			return err
		}
		if expired, err = expireLocked(ctx, tx, uc.markers, s, uc.clock, uc.logger); err != nil {
			return err
		}
		if err := s.Block(uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Slots().Update(ctx, s); err != nil {
			return err
		}
		blocked = s
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrSlotNotFound)
	}

	if expired {
		uc.metrics.HoldExpired(metrics.ExpirySourceLazy)
	}
	uc.metrics.Transition(slot.StatusBlocked.String())
	uc.logger.Info("slot blocked", "slot_id", slotID.String(), "subject", scope.Subject())
	return blocked, nil
}

func (uc *slotUseCaseImpl) CreateSlot(ctx context.Context, scope access.Scope, in CreateSlotInput) (*slot.Slot, error) {
	now := uc.clock.Now()
	if in.Start.Before(now) {
		return nil, errs.Wrap(slot.ErrInvalidWindow, "slot cannot start in the past")
	}

	var created *slot.Slot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = nil
		b, err := resolveManaged(ctx, tx, scope, in.Resource)
		if err != nil {
			return err
		}

		end := in.End
		if b.Service != nil && b.Service.DurationMin > 0 {
			end = in.Start.Add(b.Service.Duration())
		}
		window, err := slot.NewBoundedWindow(in.Start, end.Sub(in.Start))
		if err != nil {
			return err
		}
		if err := b.CheckDuration(window.Duration()); err != nil {
			return err
		}

		price := in.Price
		if !price.Valid {
			price = b.DefaultPrice()
		}
		currency := in.Currency
		if currency == "" {
			currency = b.DefaultCurrency()
		}
		s, err := slot.NewSlot(uuid.New(), in.Resource, window, price, currency, now)
		if err != nil {
			return err
		}

		if err := uc.checkFree(ctx, tx, s.Key(), window); err != nil {
			return err
		}
		if err := tx.Slots().Insert(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrResourceNotFound)
	}

	uc.logger.Info("slot created",
		"slot_id", created.ID().String(),
		"resource_key", created.Key().String(),
		"subject", scope.Subject())
	return created, nil
}

// lockManaged loads the slot FOR UPDATE and checks the caller manages its
// resource.
func (uc *slotUseCaseImpl) lockManaged(ctx context.Context, tx shared.Tx, scope access.Scope, slotID uuid.UUID) (*slot.Slot, error) {
	s, err := tx.Slots().GetForUpdate(ctx, slotID)
	if err != nil {
		return nil, err
	}
	b, err := tx.Catalog().Resolve(ctx, s.Resource())
	if err != nil {
		return nil, translateRepoErr(err, ErrResourceNotFound)
	}
	if err := scope.Require(b.Owner); err != nil {
		return nil, err
	}
	return s, nil
}

// checkFree takes the resource lock and rejects windows that overlap an
// occupying slot.
func (uc *slotUseCaseImpl) checkFree(ctx context.Context, tx shared.Tx, key slot.ResourceKey, window slot.Window) error {
	if err := tx.LockResource(ctx, key); err != nil {
		return err
	}
	existing, err := tx.Slots().ListByKeyInRange(ctx, key, window.Start(), window.End())
	if err != nil {
		return err
	}
	if other := slot.FirstConflict(key, window, existing); other != nil {
		return errs.Wrapf(slot.ErrOverlap, "conflicts with slot %s %s", other.ID(), other.Window())
	}
	return nil
}

// removeMarker drops the marker of a hold that did not commit. Markers of
// committed holds are left to their TTL; a newer hold overwrites them.
func (uc *slotUseCaseImpl) removeMarker(ctx context.Context, slotID uuid.UUID, token string) {
	if err := uc.markers.Remove(ctx, slotID, token); err != nil {
		uc.logger.Warn("failed to remove hold marker", "slot_id", slotID.String(), "error", err.Error())
	}
}

func (uc *slotUseCaseImpl) notifyReleased(ctx context.Context, slotID uuid.UUID) {
	if uc.listener != nil {
		uc.listener.SlotReleased(ctx, slotID)
	}
}

// resolveManaged resolves ref, checks the caller manages it and that it
// accepts slots.
func resolveManaged(ctx context.Context, tx shared.Tx, scope access.Scope, ref slot.ResourceRef) (*catalog.Bookable, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	b, err := tx.Catalog().Resolve(ctx, ref)
	if err != nil {
		return nil, translateRepoErr(err, ErrResourceNotFound)
	}
	if err := scope.Require(b.Owner); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
