package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/pkg/clock"
	"slot-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const TopicWaitlist = "waitlist"

type JobWriter interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt, expiresAt time.Time) (uuid.UUID, error)
}

// OutboxEnqueuer stores notices as notification_jobs rows for the mail
// worker. Jobs not picked up within the timeout are dropped by the worker.
type OutboxEnqueuer struct {
	jobs    JobWriter
	clock   clock.Clock
	timeout time.Duration
	logger  *slog.Logger
}

func NewOutboxEnqueuer(jobs JobWriter, clk clock.Clock, timeout time.Duration, logger *slog.Logger) *OutboxEnqueuer {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxEnqueuer{jobs: jobs, clock: clk, timeout: timeout, logger: logger}
}

func (e *OutboxEnqueuer) Enqueue(ctx context.Context, notice waitlist.Notice) error {
	payload, err := json.Marshal(notice)
	if err != nil {
		return errs.Wrap(err, "failed to encode waitlist notice")
	}

	now := e.clock.Now()
	var expiresAt time.Time
	if e.timeout > 0 {
		expiresAt = now.Add(e.timeout)
	}
	jobID, err := e.jobs.CreateJob(ctx, waitlist.NoticeKind, TopicWaitlist, payload, now, expiresAt)
	if err != nil {
		return err
	}
	e.logger.Debug("waitlist notice queued",
		"job_id", jobID.String(),
		"subscription_id", notice.SubscriptionID.String(),
		"slot_id", notice.SlotID.String())
	return nil
}
