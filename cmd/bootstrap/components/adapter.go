package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"slot-engine/internal/infra/holdcache"
	"slot-engine/internal/infra/notify"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/config"
	"slot-engine/internal/usecase/shared"

	"go.uber.org/fx"
)

const redisConnectTimeout = 5 * time.Second

// AdapterModule provides the hold marker cache and the notification channel.
var AdapterModule = fx.Module("adapter",
	fx.Provide(
		NewHoldMarkers,
		NewEnqueuer,
	),
)

func NewHoldMarkers(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (shared.HoldMarkers, error) {
	switch cfg.Hold.CacheDriver {
	case config.HoldCacheMemory:
		logger.Warn("hold markers kept in process memory; run a single replica")
		return holdcache.NewMemoryMarkers(cfg.Hold.CacheSize, clk), nil
	case config.HoldCacheRedis:
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		client, err := holdcache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return holdcache.NewRedisMarkers(client, logger), nil
	default:
		return nil, fmt.Errorf("unknown HOLD_CACHE_DRIVER %q", cfg.Hold.CacheDriver)
	}
}

func NewEnqueuer(lc fx.Lifecycle, cfg config.Config, jobs notify.JobWriter, clk clock.Clock, logger *slog.Logger) (shared.Enqueuer, error) {
	switch cfg.Notify.Driver {
	case config.NotifyOutbox:
		return notify.NewOutboxEnqueuer(jobs, clk, cfg.Notify.Timeout, logger), nil
	case config.NotifyAMQP:
		pub, err := notify.NewAMQPPublisher(cfg.Notify.AMQPURL, cfg.Notify.Queue, cfg.Notify.Timeout, logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return pub.Close()
			},
		})
		return pub, nil
	default:
		return nil, fmt.Errorf("unknown NOTIFY_DRIVER %q", cfg.Notify.Driver)
	}
}
