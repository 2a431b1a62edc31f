package components

import (
	"context"
	"log/slog"

	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/errs"
	"slot-engine/internal/pkg/metrics"
	"slot-engine/internal/usecase/sweeper"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(startSweeper),
)

func NewSweeper(cfg config.Config, lister sweeper.HoldingLister, expiry sweeper.HoldSweeper, m *metrics.Metrics, logger *slog.Logger) *sweeper.Sweeper {
	return sweeper.New(lister, expiry, cfg.Sweeper.Interval, cfg.Sweeper.Batch, m, logger)
}

func startSweeper(lc fx.Lifecycle, s *sweeper.Sweeper, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				if err := s.Run(ctx); err != nil && !errs.Is(err, context.Canceled) {
					logger.Error("hold sweeper stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
