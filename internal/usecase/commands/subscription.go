package commands

import (
	"context"
	"log/slog"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/infra"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

// SubscribeInput names either a slot or a criteria set, never both.
type SubscribeInput struct {
	Email    string
	SlotID   uuid.UUID
	Criteria *waitlist.Criteria
}

type SubscriptionCommands interface {
	Subscribe(ctx context.Context, in SubscribeInput) (*waitlist.Subscription, error)
	Activate(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error)
	Unsubscribe(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error)
}

type subscriptionUseCaseImpl struct {
	uow                 shared.UnitOfWork
	markers             shared.HoldMarkers
	listener            ReleaseListener
	requireConfirmation bool
	clock               clock.Clock
	metrics             *metrics.Metrics
	logger              *slog.Logger
}

func NewSubscriptionUseCase(
	uow shared.UnitOfWork,
	markers shared.HoldMarkers,
	listener ReleaseListener,
	requireConfirmation bool,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) SubscriptionCommands {
	if logger == nil {
		logger = slog.Default()
	}
	return &subscriptionUseCaseImpl{
		uow:                 uow,
		markers:             markers,
		listener:            listener,
		requireConfirmation: requireConfirmation,
		clock:               clk,
		metrics:             m,
		logger:              logger,
	}
}

func (uc *subscriptionUseCaseImpl) Subscribe(ctx context.Context, in SubscribeInput) (*waitlist.Subscription, error) {
	switch {
	case in.SlotID != uuid.Nil && in.Criteria != nil:
		return nil, errs.Wrap(waitlist.ErrInvalidCriteria, "subscribe to a slot or to criteria, not both")
	case in.SlotID != uuid.Nil:
		return uc.subscribeDirect(ctx, in.Email, in.SlotID)
	case in.Criteria != nil:
		return uc.subscribeCriteria(ctx, in.Email, *in.Criteria)
	default:
		return nil, waitlist.ErrMissingTarget
	}
}

func (uc *subscriptionUseCaseImpl) subscribeDirect(ctx context.Context, email string, slotID uuid.UUID) (*waitlist.Subscription, error) {
	sub, err := waitlist.NewDirect(email, slotID, uc.requireConfirmation, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	var (
		expired        bool
		stillAvailable bool
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		expired, stillAvailable = false, false
		s, err := tx.Slots().GetForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if expired, err = expireLocked(ctx, tx, uc.markers, s, uc.clock, uc.logger); err != nil {
			return err
		}
		if s.Status() == slot.StatusAvailable {
			stillAvailable = true
			return nil
		}

		exists, err := tx.Subscriptions().ExistsActiveDirect(ctx, sub.Email(), slotID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadySubscribed
		}
		return tx.Subscriptions().Insert(ctx, sub)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, ErrAlreadySubscribed)
		}
		return nil, translateRepoErr(err, ErrSlotNotFound)
	}

	if expired {
		uc.metrics.HoldExpired(metrics.ExpirySourceLazy)
		if uc.listener != nil {
			uc.listener.SlotReleased(ctx, slotID)
		}
	}
	if stillAvailable {
		return nil, ErrSlotStillAvailable
	}

	uc.logger.Info("direct subscription created", "subscription_id", sub.ID().String(), "slot_id", slotID.String())
	return sub, nil
}

func (uc *subscriptionUseCaseImpl) subscribeCriteria(ctx context.Context, email string, c waitlist.Criteria) (*waitlist.Subscription, error) {
	sub, err := waitlist.NewByCriteria(email, c, uc.requireConfirmation, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Subscriptions().Insert(ctx, sub)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindForeignKeyViolated) {
			return nil, errs.Mark(err, ErrResourceNotFound)
		}
		return nil, translateRepoErr(err, ErrSubscriptionNotFound)
	}

	uc.logger.Info("criteria subscription created", "subscription_id", sub.ID().String())
	return sub, nil
}

func (uc *subscriptionUseCaseImpl) Activate(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error) {
	var sub *waitlist.Subscription
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub = nil
		found, err := tx.Subscriptions().GetByToken(ctx, token)
		if err != nil {
			return err
		}
		if err := found.Activate(); err != nil {
			return err
		}
		if err := tx.Subscriptions().Update(ctx, found); err != nil {
			return err
		}
		sub = found
		return nil
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrSubscriptionNotFound)
	}
	return sub, nil
}

func (uc *subscriptionUseCaseImpl) Unsubscribe(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error) {
	var sub *waitlist.Subscription
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sub = nil
		found, err := tx.Subscriptions().GetByToken(ctx, token)
		if err != nil {
			return err
		}
		sub = found
		if !found.Unsubscribe() {
			return nil
		}
		return tx.Subscriptions().Update(ctx, found)
	})
	if err != nil {
		return nil, translateRepoErr(err, ErrSubscriptionNotFound)
	}
	uc.logger.Info("subscription cancelled", "subscription_id", sub.ID().String())
	return sub, nil
}
