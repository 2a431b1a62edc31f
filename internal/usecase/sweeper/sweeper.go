package sweeper

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/pkg/metrics"
)

type HoldingLister interface {
	ListHolding(ctx context.Context, limit int) ([]*slot.Slot, error)
}

type HoldSweeper interface {
	Sweep(ctx context.Context, slots []*slot.Slot) int
}

// Sweeper periodically reverts stale holds nobody has read since they lapsed.
type Sweeper struct {
	lister   HoldingLister
	expiry   HoldSweeper
	interval time.Duration
	batch    int
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(lister HoldingLister, expiry HoldSweeper, interval time.Duration, batch int, m *metrics.Metrics, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	if batch <= 0 {
		batch = 200
	}
	return &Sweeper{
		lister:   lister,
		expiry:   expiry,
		interval: interval,
		batch:    batch,
		metrics:  m,
		logger:   logger,
	}
}

func (s *Sweeper) Enabled() bool { return s.interval > 0 }

// Run sweeps once immediately and then on every tick until ctx is done.
// It returns at once when the interval is not positive.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info("hold sweeper disabled")
		return nil
	}
	t := time.NewTicker(s.interval)
	defer t.Stop()

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one sweep and reports how many holds were reverted.
func (s *Sweeper) Tick(ctx context.Context) int {
	started := time.Now()
	defer func() { s.metrics.ObserveSweep(time.Since(started)) }()

	holding, err := s.lister.ListHolding(ctx, s.batch)
	if err != nil {
		s.logger.Error("hold sweep listing failed", "error", err.Error())
		return 0
	}
	if len(holding) == 0 {
		return 0
	}
	n := s.expiry.Sweep(ctx, holding)
	if n > 0 {
		s.logger.Info("hold sweep reverted stale holds", "examined", len(holding), "reverted", n)
	}
	return n
}
