package bootstrap

import (
	"time"

	"slot-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		NewSlotLocation,
	),
)

// NewSlotLocation is the zone used for generation and wall-clock matching.
func NewSlotLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Slots.Location()
}
