package repository

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/waitlist"
	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/repository/converter"
	"slot-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var liveSubscription = sq.Eq{"status": string(waitlist.StatusActive), "is_active": true}

type SubscriptionRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewSubscriptionRepository(dbtx db.DBTX, logger *slog.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: dbtx, logger: logger}
}

func (r *SubscriptionRepository) Insert(ctx context.Context, sub *waitlist.Subscription) error {
	values, err := converter.SubscriptionValues(sub)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to encode subscription", err)
	}
	query, args, err := db.Psql.Insert("subscriptions").
		Columns(converter.SubscriptionColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build subscription insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to insert subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *waitlist.Subscription) error {
	query, args, err := db.Psql.Update("subscriptions").
		Set("status", string(sub.Status())).
		Set("is_active", sub.IsActive()).
		Where(sq.Eq{"id": sub.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build subscription update", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to update subscription", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "subscription not found", nil)
	}
	return nil
}

func (r *SubscriptionRepository) GetByToken(ctx context.Context, token uuid.UUID) (*waitlist.Subscription, error) {
	query, args, err := db.Psql.Select(converter.SubscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"token_unsubscribe": token}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build subscription query", err)
	}
	sub, err := converter.ScanSubscription(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "subscription not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load subscription", err)
	}
	return sub, nil
}

func (r *SubscriptionRepository) ExistsActiveDirect(ctx context.Context, email string, slotID uuid.UUID) (bool, error) {
	query, args, err := db.Psql.Select("1").
		From("subscriptions").
		Where(sq.Eq{"email": email, "timeslot_id": slotID, "is_active": true}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build duplicate check", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to check duplicate subscription", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) ListDirect(ctx context.Context, slotID uuid.UUID) ([]*waitlist.Subscription, error) {
	query, args, err := db.Psql.Select(converter.SubscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"timeslot_id": slotID}).
		Where(liveSubscription).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build direct match query", err)
	}
	return r.list(ctx, query, args...)
}

func (r *SubscriptionRepository) ListByResourceWindow(ctx context.Context, fieldID, serviceID uuid.UUID, start, end time.Time) ([]*waitlist.Subscription, error) {
	resource := sq.Or{}
	if fieldID != uuid.Nil {
		resource = append(resource, sq.Eq{"field_id": fieldID})
	}
	if serviceID != uuid.Nil {
		resource = append(resource, sq.Eq{"service_id": serviceID})
	}
	if len(resource) == 0 {
		return nil, nil
	}

	query, args, err := db.Psql.Select(converter.SubscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"timeslot_id": nil}).
		Where(resource).
		Where(sq.LtOrEq{"start_window": start}).
		Where(sq.GtOrEq{"end_window": end}).
		Where(liveSubscription).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build criteria match query", err)
	}
	return r.list(ctx, query, args...)
}

func (r *SubscriptionRepository) list(ctx context.Context, query string, args ...any) ([]*waitlist.Subscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list subscriptions", err)
	}
	defer rows.Close()

	var out []*waitlist.Subscription
	for rows.Next() {
		sub, scanErr := converter.ScanSubscription(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan subscription", scanErr)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate subscriptions", err)
	}
	return out, nil
}
