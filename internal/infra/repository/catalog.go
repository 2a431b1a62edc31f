package repository

import (
	"context"
	"log/slog"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/domain/slot"
	"slot-engine/internal/infra"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/pkg/pgconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CatalogRepository resolves resource references against the catalog
// tables. Catalog CRUD lives elsewhere; this side only reads.
type CatalogRepository struct {
	db     db.DBTX
	logger *slog.Logger
}

func NewCatalogRepository(dbtx db.DBTX, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{db: dbtx, logger: logger}
}

func (r *CatalogRepository) Resolve(ctx context.Context, ref slot.ResourceRef) (*catalog.Bookable, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	switch ref.Kind() {
	case slot.KindField:
		return r.resolveField(ctx, ref)
	case slot.KindServiceAt:
		return r.resolveCenterService(ctx, ref)
	case slot.KindProfessionalService:
		return r.resolveProfessionalService(ctx, ref)
	default:
		svc, err := r.service(ctx, ref.ServiceID())
		if err != nil {
			return nil, err
		}
		return &catalog.Bookable{
			Ref:      ref,
			Category: svc.Category,
			Label:    svc.Name,
			Owner:    access.Owner{Kind: access.OwnerPlatform},
			Active:   svc.Active,
			Service:  svc,
			Offered:  true,
		}, nil
	}
}

func (r *CatalogRepository) resolveField(ctx context.Context, ref slot.ResourceRef) (*catalog.Bookable, error) {
	query, args, err := db.Psql.Select("f.name", "f.is_active AND c.is_active", "c.id").
		From("fields f").
		Join("complexes c ON c.id = f.complex_id").
		Where(sq.Eq{"f.id": ref.FieldID()}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build field query", err)
	}

	var (
		name      string
		active    bool
		complexID uuid.UUID
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&name, &active, &complexID); err != nil {
		return nil, r.notFoundOr(err, "field")
	}
	return &catalog.Bookable{
		Ref:      ref,
		Category: catalog.CategorySports,
		Label:    name,
		Owner:    access.Owner{Kind: access.OwnerComplex, ID: complexID},
		Active:   active,
	}, nil
}

func (r *CatalogRepository) resolveCenterService(ctx context.Context, ref slot.ResourceRef) (*catalog.Bookable, error) {
	svc, err := r.service(ctx, ref.ServiceID())
	if err != nil {
		return nil, err
	}

	query, args, err := db.Psql.Select(
		"bc.name",
		"bc.is_active",
		"bc.booking_mode",
		"bc.fixed_service_id",
	).
		Column(sq.Expr("EXISTS (SELECT 1 FROM beauty_center_services bcs WHERE bcs.beauty_center_id = bc.id AND bcs.service_id = ?)", ref.ServiceID())).
		From("beauty_centers bc").
		Where(sq.Eq{"bc.id": ref.BeautyCenterID()}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build center query", err)
	}

	var (
		name    string
		active  bool
		mode    string
		fixedID pgtype.UUID
		offered bool
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&name, &active, &mode, &fixedID, &offered); err != nil {
		return nil, r.notFoundOr(err, "beauty center")
	}
	return &catalog.Bookable{
		Ref:      ref,
		Category: catalog.CategoryBeauty,
		Label:    name,
		Owner:    access.Owner{Kind: access.OwnerBeautyCenter, ID: ref.BeautyCenterID()},
		Active:   active,
		Service:  svc,
		Offered:  offered,
		Center: &catalog.CenterPolicy{
			Mode:           catalog.CenterMode(mode),
			FixedServiceID: pgconv.UUIDFromPgtype(fixedID),
		},
	}, nil
}

func (r *CatalogRepository) resolveProfessionalService(ctx context.Context, ref slot.ResourceRef) (*catalog.Bookable, error) {
	svc, err := r.service(ctx, ref.ServiceID())
	if err != nil {
		return nil, err
	}
	prof, err := r.Professional(ctx, ref.ProfessionalID())
	if err != nil {
		return nil, err
	}

	query, args, err := db.Psql.Select("1").
		From("professional_services").
		Where(sq.Eq{"professional_id": ref.ProfessionalID(), "service_id": ref.ServiceID()}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build offering query", err)
	}
	var offered bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&offered); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to check professional offering", err)
	}

	policy := prof.Policy
	return &catalog.Bookable{
		Ref:       ref,
		Category:  catalog.CategoryProfessionals,
		Label:     prof.Name,
		Owner:     access.Owner{Kind: access.OwnerProfessional, ID: prof.ID},
		Active:    prof.Active,
		Service:   svc,
		Offered:   offered,
		Personnel: &policy,
	}, nil
}

func (r *CatalogRepository) Professional(ctx context.Context, id uuid.UUID) (*catalog.Professional, error) {
	query, args, err := db.Psql.Select("id", "name", "is_active", "booking_mode", "daily_quota").
		From("professionals").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build professional query", err)
	}

	var (
		p     catalog.Professional
		mode  string
		quota int32
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.Active, &mode, &quota); err != nil {
		return nil, r.notFoundOr(err, "professional")
	}
	p.Policy = catalog.ProfessionalPolicy{Mode: capacity.BookingMode(mode), DailyQuota: int(quota)}
	return &p, nil
}

func (r *CatalogRepository) service(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	query, args, err := db.Psql.Select("id", "name", "category", "duration_min", "base_price", "currency", "is_active").
		From("services").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to build service query", err)
	}

	var (
		svc      catalog.Service
		category string
		duration int32
		price    pgtype.Numeric
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&svc.ID, &svc.Name, &category, &duration, &price, &svc.Currency, &svc.Active); err != nil {
		return nil, r.notFoundOr(err, "service")
	}
	svc.Category = catalog.Category(category)
	svc.DurationMin = int(duration)
	if svc.BasePrice, err = pgconv.NullDecimalFromNumeric(price); err != nil {
		return nil, infra.WrapRepoErr(r.logger, infra.KindDBFailure, "invalid service price", err)
	}
	return &svc, nil
}

func (r *CatalogRepository) notFoundOr(err error, what string) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(r.logger, infra.KindNotFound, what+" not found", err)
	}
	return infra.WrapRepoErr(r.logger, infra.KindDBFailure, "failed to load "+what, err)
}
