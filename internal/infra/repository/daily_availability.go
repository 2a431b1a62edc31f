package repository

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var availabilityColumns = []string{"id", "professional_id", "day", "capacity", "reserved_count"}

type DailyAvailabilityRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewDailyAvailabilityRepository(dbtx db.DBTX, logger *slog.Logger) *DailyAvailabilityRepository {
	return &DailyAvailabilityRepository{db: dbtx, logger: logger}
}

// EnsureForUpdate inserts the row if missing, then locks it. Concurrent
// callers for the same pair queue on the row lock; other pairs proceed.
func (r *DailyAvailabilityRepository) EnsureForUpdate(ctx context.Context, professionalID uuid.UUID, day time.Time, capacityLimit int) (*capacity.DailyAvailability, error) {
	pgDay := pgconv.DateToPgtype(day)

	insert, args, err := db.Psql.Insert("daily_availability").
		Columns("id", "professional_id", "day", "capacity", "reserved_count").
		Values(uuid.New(), professionalID, pgDay, capacityLimit, 0).
		Suffix("ON CONFLICT (professional_id, day) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability insert", err)
	}
	if _, err := r.db.Exec(ctx, insert, args...); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to create availability", err)
	}

	query, args, err := db.Psql.Select(availabilityColumns...).
		From("daily_availability").
		Where(sq.Eq{"professional_id": professionalID, "day": pgDay}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability lock", err)
	}

	d, err := scanAvailability(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(r.logger, infra.KindNotFound, "availability row vanished", err)
		}
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to lock availability", err)
	}
	return d, nil
}

func (r *DailyAvailabilityRepository) Save(ctx context.Context, d *capacity.DailyAvailability) error {
	query, args, err := db.Psql.Update("daily_availability").
		Set("capacity", d.Capacity()).
		Set("reserved_count", d.ReservedCount()).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": d.ID()}).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability update", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to update availability", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, "availability not found", nil)
	}
	return nil
}

// ListRange returns stored rows for days in [from, to], ordered by day.
func (r *DailyAvailabilityRepository) ListRange(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*capacity.DailyAvailability, error) {
	query, args, err := db.Psql.Select(availabilityColumns...).
		From("daily_availability").
		Where(sq.Eq{"professional_id": professionalID}).
		Where(sq.GtOrEq{"day": pgconv.DateToPgtype(from)}).
		Where(sq.LtOrEq{"day": pgconv.DateToPgtype(to)}).
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build availability range", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to list availability", err)
	}
	defer rows.Close()

	var out []*capacity.DailyAvailability
	for rows.Next() {
		d, scanErr := scanAvailability(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to scan availability", scanErr)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to iterate availability", err)
	}
	return out, nil
}

func scanAvailability(row pgx.Row) (*capacity.DailyAvailability, error) {
	var (
		id, professionalID uuid.UUID
		day                pgtype.Date
		capacityLimit      int32
		reserved           int32
	)
	if err := row.Scan(&id, &professionalID, &day, &capacityLimit, &reserved); err != nil {
		return nil, err
	}
	return capacity.Restore(id, professionalID, day.Time, int(capacityLimit), int(reserved))
}

type DayBookingRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewDayBookingRepository(dbtx db.DBTX, logger *slog.Logger) *DayBookingRepository {
	return &DayBookingRepository{db: dbtx, logger: logger}
}

func (r *DayBookingRepository) Insert(ctx context.Context, b capacity.DayBooking) error {
	query, args, err := db.Psql.Insert("day_bookings").
		Columns("id", "daily_availability_id", "professional_id", "day", "email", "created_at").
		Values(b.ID, b.DailyAvailabilityID, b.ProfessionalID, pgconv.DateToPgtype(b.Day), b.Email, b.CreatedAt).
		ToSql()
	if err != nil {
		return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build day booking insert", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return infra.WrapRepoErr(r.logger, infra.ClassifyPgErr(err), "failed to insert day booking", err)
	}
	return nil
}
