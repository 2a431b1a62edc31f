package commands

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
)

type DayBookingCommands interface {
	// BookDay takes one unit of the professional's capacity for day.
	// Concurrent calls for the same pair never admit more than the capacity.
	BookDay(ctx context.Context, professionalID uuid.UUID, day schedule.Date, email string) (*capacity.DailyAvailability, error)
}

type dayBookingUseCaseImpl struct {
	uow     shared.UnitOfWork
	loc     *time.Location
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewDayBookingUseCase(uow shared.UnitOfWork, loc *time.Location, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) DayBookingCommands {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dayBookingUseCaseImpl{uow: uow, loc: loc, clock: clk, metrics: m, logger: logger}
}

func (uc *dayBookingUseCaseImpl) BookDay(ctx context.Context, professionalID uuid.UUID, day schedule.Date, email string) (*capacity.DailyAvailability, error) {
	normalized, err := waitlist.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	if day.IsZero() || day.Before(schedule.DateOf(now.In(uc.loc))) {
		return nil, errs.Wrap(slot.ErrInvalidWindow, "cannot book a past day")
	}
	dayTime := time.Date(day.Year, day.Month, day.Day, 0, 0, 0, 0, time.UTC)

	var booked *capacity.DailyAvailability
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		booked = nil
		prof, err := tx.Catalog().Professional(ctx, professionalID)
		if err != nil {
			return translateRepoErr(err, ErrProfessionalNotFound)
		}
		if err := prof.CheckPerDay(); err != nil {
			return err
		}

		d, err := tx.DailyAvailability().EnsureForUpdate(ctx, professionalID, dayTime, prof.Policy.DailyQuota)
		if err != nil {
			return err
		}
		if err := d.Admit(); err != nil {
			return err
		}
		if err := tx.DailyAvailability().Save(ctx, d); err != nil {
			return err
		}
		if err := tx.DayBookings().Insert(ctx, capacity.NewDayBooking(d, normalized, now)); err != nil {
			return err
		}
		booked = d
		return nil
	})
	if err != nil {
		if errs.Is(err, capacity.ErrCapacityExceeded) {
			uc.metrics.DayBooking("exceeded")
		}
		return nil, translateRepoErr(err, ErrProfessionalNotFound)
	}

	uc.metrics.DayBooking("admitted")
	uc.logger.Info("day booked",
		"professional_id", professionalID.String(),
		"day", day.String(),
		"remaining", booked.Remaining())
	return booked, nil
}
