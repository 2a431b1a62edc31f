package repository

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/repository/converter"
	"slot-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewSlotRepository(dbtx db.DBTX, logger *slog.Logger) *SlotRepository {
	return &SlotRepository{db: dbtx, logger: logger}
}

func (r *SlotRepository) Get(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	return r.get(ctx, id, "")
}

func (r *SlotRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*slot.Slot, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *SlotRepository) get(ctx context.Context, id uuid.UUID, suffix string) (*slot.Slot, error) {
	b := db.Psql.Select(converter.SlotColumns...).
		From("slots").
		Where(sq.Eq{"id": id})
	if suffix != "" {
		b = b.Suffix(suffix)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot query", err)
	}

	s, err := converter.ScanSlot(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "slot not found", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load slot", err)
	}
	return s, nil
}

func (r *SlotRepository) ListByKeyInRange(ctx context.Context, key slot.ResourceKey, from, to time.Time) ([]*slot.Slot, error) {
	query, args, err := db.Psql.Select(converter.SlotColumns...).
		From("slots").
		Where(sq.Eq{"resource_key": key.String()}).
		Where(sq.Lt{"start_at": to}).
		Where(sq.Gt{"end_at": from}).
		OrderBy("start_at").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build overlap query", err)
	}
	return r.list(ctx, query, args...)
}

func (r *SlotRepository) list(ctx context.Context, query string, args ...any) ([]*slot.Slot, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list slots", err)
	}
	defer rows.Close()

	var out []*slot.Slot
	for rows.Next() {
		s, scanErr := converter.ScanSlot(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan slot", scanErr)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate slots", err)
	}
	return out, nil
}

func (r *SlotRepository) Insert(ctx context.Context, s *slot.Slot) error {
	query, args, err := db.Psql.Insert("slots").
		Columns(converter.SlotInsertColumns...).
		Values(converter.SlotValues(s)...).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to insert slot", err)
	}
	return nil
}

// InsertMany streams the batch with COPY.
func (r *SlotRepository) InsertMany(ctx context.Context, slots []*slot.Slot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"slots"},
		converter.SlotInsertColumns,
		pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
			return converter.SlotValues(slots[i]), nil
		}),
	)
	if err != nil {
		return 0, infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to copy slots", err)
	}
	return n, nil
}

func (r *SlotRepository) Update(ctx context.Context, s *slot.Slot) error {
	query, args, err := db.Psql.Update("slots").
		Set("status", string(s.Status())).
		Set("reservation_code", pgconv.NullableStringToPgtype(s.ReservationCode())).
		Set("held_at", pgconv.TimePtrToPgtype(s.HeldAt())).
		Set("updated_at", s.UpdatedAt()).
		Where(sq.Eq{"id": s.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build slot update", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to update slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "slot not found", nil)
	}
	return nil
}
