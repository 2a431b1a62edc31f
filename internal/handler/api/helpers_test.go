//go:build unit

package api_test

import (
	"errors"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const adminToken = "admin-token"

var (
	errTokenRejected = errors.New("token rejected")
	managedComplex   = uuid.MustParse("6b0f6c57-7c1e-4a8e-9d8e-0d7f1f5e2a11")
)

// stubResolver accepts adminToken only.
type stubResolver struct{}

func (stubResolver) ResolveScope(token string) (access.Scope, error) {
	if token != adminToken {
		return access.Public(), errTokenRejected
	}
	return access.Admin("admin@complejo.test", []uuid.UUID{managedComplex}, nil, nil), nil
}

func newTestEngine() (*gin.Engine, *middleware.ScopeMiddleware) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	scope := middleware.NewScopeMiddleware(stubResolver{})
	engine.Use(middleware.ErrorHandler())
	engine.Use(scope.ResolveScope())
	return engine, scope
}
