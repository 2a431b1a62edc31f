package components

import (
	"log/slog"
	"time"

	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/commands"
	"slot-engine/internal/usecase/queries"
	"slot-engine/internal/usecase/shared"
	"slot-engine/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		fx.Annotate(
			commands.NewWaitlistMatcher,
			fx.As(new(commands.ReleaseListener)),
		),
		fx.Annotate(
			commands.NewHoldExpiry,
			fx.As(new(queries.HoldNormalizer)),
			fx.As(new(sweeper.HoldSweeper)),
		),
		NewSlotCommands,
		NewGeneratorCommands,
		commands.NewDayBookingUseCase,
		NewSubscriptionCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewCapacityQueries,
	),
)

func NewSlotCommands(
	uow shared.UnitOfWork,
	markers shared.HoldMarkers,
	listener commands.ReleaseListener,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) commands.SlotCommands {
	return commands.NewSlotUseCase(uow, markers, listener, cfg.Hold.Duration, clk, m, logger)
}

func NewGeneratorCommands(
	uow shared.UnitOfWork,
	cfg config.Config,
	loc *time.Location,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) commands.GeneratorCommands {
	return commands.NewGeneratorUseCase(uow, commands.GeneratorSettings{
		Location:     loc,
		MaxRangeDays: cfg.Slots.MaxRangeDays,
	}, clk, m, logger)
}

func NewSubscriptionCommands(
	uow shared.UnitOfWork,
	markers shared.HoldMarkers,
	listener commands.ReleaseListener,
	cfg config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) commands.SubscriptionCommands {
	return commands.NewSubscriptionUseCase(uow, markers, listener, cfg.Waitlist.RequireConfirmation, clk, m, logger)
}
