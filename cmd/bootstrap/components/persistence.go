package components

import (
	"slot-engine/internal/infra/db"
	"slot-engine/internal/infra/notify"
	"slot-engine/internal/infra/readstore"
	"slot-engine/internal/infra/repository"
	"slot-engine/internal/infra/uow"
	"slot-engine/internal/usecase/queries"
	"slot-engine/internal/usecase/sweeper"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Slot
		fx.Annotate(
			readstore.NewSlotReadStore,
			fx.As(new(queries.SlotReadStore)),
			fx.As(new(sweeper.HoldingLister)),
		),
		// Capacity
		fx.Annotate(
			readstore.NewCapacityReadStore,
			fx.As(new(queries.CapacityReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork; transactional repositories are built per Tx
		uow.NewPostgresUoW,
		// Notification outbox
		fx.Annotate(
			repository.NewNotificationRepository,
			fx.As(new(notify.JobWriter)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
