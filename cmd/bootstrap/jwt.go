package bootstrap

import (
	"slot-engine/internal/handler/middleware"
	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		NewScopeResolver,
		middleware.NewScopeMiddleware,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	if cfg.Scope.TokenSecret == "" {
		panic("SCOPE_TOKEN_SECRET must not be empty")
	}
	return jwt.NewService(cfg.Scope.TokenSecret, cfg.Scope.TokenTTL)
}

func NewScopeResolver(svc *jwt.Service) middleware.ScopeResolver {
	return svc
}
