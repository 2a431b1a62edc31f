package readstore

import (
	"context"
	"log/slog"
	"time"

	"slot-engine/internal/domain/capacity"
	"slot-engine/internal/domain/catalog"
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/repository"
	"slot-engine/internal/usecase/queries"

	"github.com/google/uuid"
)

// CapacityReadStore serves the day calendar outside any transaction using
// the same statements as the write side.
type CapacityReadStore struct {
	catalog *repository.CatalogRepository
	days    *repository.DailyAvailabilityRepository
}

var _ queries.CapacityReadStore = (*CapacityReadStore)(nil)

func NewCapacityReadStore(dbtx db.DBTX, logger *slog.Logger) *CapacityReadStore {
	return &CapacityReadStore{
		catalog: repository.NewCatalogRepository(dbtx, logger),
		days:    repository.NewDailyAvailabilityRepository(dbtx, logger),
	}
}

func (r *CapacityReadStore) FindProfessional(ctx context.Context, id uuid.UUID) (*catalog.Professional, error) {
	return r.catalog.Professional(ctx, id)
}

func (r *CapacityReadStore) ListDays(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]*capacity.DailyAvailability, error) {
	return r.days.ListRange(ctx, professionalID, from, to)
}
