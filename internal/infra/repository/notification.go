package repository

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// JobStatusQueued is the state a mail worker picks jobs up from.
const JobStatusQueued = "queued"

type NotificationRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewNotificationRepository(dbtx db.DBTX, logger *slog.Logger) *NotificationRepository {
	return &NotificationRepository{db: dbtx, logger: logger}
}

// CreateJob queues a payload for the mail worker. A zero expiresAt never expires.
func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt, expiresAt time.Time) (uuid.UUID, error) {
	id := uuid.New()
	var expires any
	if !expiresAt.IsZero() {
		expires = pgconv.TimeToPgtype(expiresAt)
	}

	query, args, err := db.Psql.Insert("notification_jobs").
		Columns("id", "kind", "topic", "payload", "run_at", "expires_at", "status").
		Values(id, kind, topic, payload, runAt, expires, JobStatusQueued).
		ToSql()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build notification job insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return uuid.Nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to create notification job", err)
	}
	return id, nil
}
