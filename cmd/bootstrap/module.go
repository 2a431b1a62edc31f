package bootstrap

import (
	"slot-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule wires everything a use case needs. CLI commands that do not
// serve HTTP start only this.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	MetricsModule,
	components.PersistenceModule,
	components.AdapterModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	JWTModule,
	components.WorkerModule,
	components.HandlerModule,
)
