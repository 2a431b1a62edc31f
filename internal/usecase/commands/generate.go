package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/schedule"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type GenerateInput struct {
	Resource   slot.ResourceRef
	Recurrence schedule.Recurrence
	Price      decimal.NullDecimal
	Currency   string
}

type GenerateResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type GeneratorCommands interface {
	GenerateBulk(ctx context.Context, scope access.Scope, in GenerateInput) (GenerateResult, error)
}

type GeneratorSettings struct {
	Location     *time.Location
	MaxRangeDays int
}

type generatorUseCaseImpl struct {
	uow      shared.UnitOfWork
	settings GeneratorSettings
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewGeneratorUseCase(uow shared.UnitOfWork, settings GeneratorSettings, clk clock.Clock, m *metrics.Metrics, logger *slog.Logger) GeneratorCommands {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.MaxRangeDays <= 0 || settings.MaxRangeDays > schedule.MaxRangeDays {
		settings.MaxRangeDays = schedule.MaxRangeDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &generatorUseCaseImpl{
		uow:      uow,
		settings: settings,
		clock:    clk,
		metrics:  m,
		logger:   logger,
	}
}

// GenerateBulk expands the recurrence and inserts every candidate that does
// not overlap an occupying slot of the resource or an earlier candidate.
// Rerunning with the same input creates nothing.
func (uc *generatorUseCaseImpl) GenerateBulk(ctx context.Context, scope access.Scope, in GenerateInput) (GenerateResult, error) {
	var result GenerateResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result = GenerateResult{}
		b, err := resolveManaged(ctx, tx, scope, in.Resource)
		if err != nil {
			return err
		}

		rec := in.Recurrence
		if rec.DurationMin <= 0 && b.Service != nil {
			rec.DurationMin = b.Service.DurationMin
		}
		rec, err = rec.Normalize(b.DefaultWeekdays(schedule.WorkWeek))
		if err != nil {
			return err
		}
		if days := rec.StartDate.DaysUntil(rec.EndDate) + 1; days > uc.settings.MaxRangeDays {
			return errs.Wrap(slot.ErrInvalidWindow, fmt.Sprintf("range spans %d days, at most %d allowed", days, uc.settings.MaxRangeDays))
		}
		if err := b.CheckDuration(time.Duration(rec.DurationMin) * time.Minute); err != nil {
			return err
		}

		windows := rec.Candidates(uc.settings.Location)
		if len(windows) == 0 {
			return nil
		}

		key := in.Resource.Key()
		if err := tx.LockResource(ctx, key); err != nil {
			return err
		}
		existing, err := tx.Slots().ListByKeyInRange(ctx, key, windows[0].Start(), windows[len(windows)-1].End())
		if err != nil {
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

		now := uc.clock.Now()
		occupancy := slot.NewOccupancy(key, existing)
		batch := make([]*slot.Slot, 0, len(windows))
		for _, w := range windows {
			if !occupancy.TryAdd(w) {
				result.Skipped++
				continue
			}
			s, err := slot.NewSlot(uuid.New(), in.Resource, w, price, currency, now)
			if err != nil {
				return err
			}
			batch = append(batch, s)
		}

		n, err := tx.Slots().InsertMany(ctx, batch)
		if err != nil {
			return err
		}
		result.Created = int(n)
		return nil
	})
	if err != nil {
		return GenerateResult{}, translateRepoErr(err, ErrResourceNotFound)
	}

	uc.metrics.Generated(result.Created, result.Skipped)
	uc.logger.Info("slots generated",
		"resource_key", in.Resource.Key().String(),
		"created", result.Created,
		"skipped", result.Skipped,
		"subject", scope.Subject())
	return result, nil
}
