package components

import (
	"slot-engine/internal/handler"
	"slot-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
		api.NewCapacityHandler,
		api.NewSubscriptionHandler,
		handler.NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)
