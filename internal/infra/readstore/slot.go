package readstore

import (
	"context"
	"log/slog"

	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/repository/converter"
	"slot-engine/internal/pkg/pgconv"
	"slot-engine/internal/usecase/queries"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// categoryKinds maps a listing category to the resource kinds that imply it.
// Slots bound to a bare service take the category of that service.
var categoryKinds = map[catalog.Category]slot.ResourceKind{
	catalog.CategorySports:        slot.KindField,
	catalog.CategoryBeauty:        slot.KindServiceAt,
	catalog.CategoryProfessionals: slot.KindProfessionalService,
}

type SlotReadStore struct {
	db     db.DBTX
	logger *slog.Logger
}

var _ queries.SlotReadStore = (*SlotReadStore)(nil)

func NewSlotReadStore(dbtx db.DBTX, logger *slog.Logger) *SlotReadStore {
	return &SlotReadStore{db: dbtx, logger: logger}
}

func (r *SlotReadStore) FindSlot(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	query, args, err := db.Psql.Select(converter.SlotColumns...).
		From("slots").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot query", err)
	}
	s, err := converter.ScanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "slot not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to get slot view", err)
	}
	return s, nil
}

func (r *SlotReadStore) ListSlots(ctx context.Context, q queries.SlotListQuery) ([]*slot.Slot, int, error) {
	where := filters(q)

	countSQL, countArgs, err := db.Psql.Select("COUNT(*)").From("slots").Where(where).ToSql()
	if err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot count", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to count slots", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	b := db.Psql.Select(converter.SlotColumns...).
		From("slots").
		Where(where).
		OrderBy("start_at", "id")
	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit)).Offset(uint64(q.Offset))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot listing", err)
	}
	slots, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return slots, int(total), nil
}

func (r *SlotReadStore) ListHolding(ctx context.Context, limit int) ([]*slot.Slot, error) {
	b := db.Psql.Select(converter.SlotColumns...).
		From("slots").
		Where(sq.Eq{"status": string(slot.StatusHolding)}).
		OrderBy("held_at", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build holding query", err)
	}
	return r.list(ctx, query, args...)
}

func (r *SlotReadStore) list(ctx context.Context, query string, args ...any) ([]*slot.Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list slot views", err)
	}
	defer rows.Close()

	var out []*slot.Slot
	for rows.Next() {
		s, scanErr := converter.ScanSlot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan slot view", scanErr)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate slot views", err)
	}
	return out, nil
}

func filters(q queries.SlotListQuery) sq.And {
	where := sq.And{}
	if !q.From.IsZero() {
		where = append(where, sq.GtOrEq{"start_at": q.From})
	}
	if !q.To.IsZero() {
		where = append(where, sq.Lt{"start_at": q.To})
	}
	if q.Status != "" {
		where = append(where, sq.Eq{"status": string(q.Status)})
	}
	if q.ResourceID != uuid.Nil {
		where = append(where, sq.Or{
			sq.Eq{"field_id": q.ResourceID},
			sq.Eq{"service_id": q.ResourceID},
			sq.Eq{"beauty_center_id": q.ResourceID},
			sq.Eq{"professional_id": q.ResourceID},
		})
	}
	if q.Category != "" {
		where = append(where, categoryFilter(q.Category))
	}
	return where
}

func categoryFilter(c catalog.Category) sq.Sqlizer {
	bare := sq.And{
		sq.Eq{"resource_kind": string(slot.KindServiceOnly)},
		sq.Expr("service_id IN (SELECT id FROM services WHERE category = ?)", string(c)),
	}
	kind, ok := categoryKinds[c]
	if !ok {
		return bare
	}
	return sq.Or{sq.Eq{"resource_kind": string(kind)}, bare}
}
