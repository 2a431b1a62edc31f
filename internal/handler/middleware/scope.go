package middleware

import (
	"log/slog"
	"net/http"

	"slot-engine/internal/domain/access"
	"slot-engine/internal/handler/httperr"
	"slot-engine/internal/pkg/cookie"
	"slot-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const ctxScopeKey = "access_scope"

var ErrAdminTokenRequired = errs.New("admin token required")

type ScopeResolver interface {
	ResolveScope(token string) (access.Scope, error)
}

type ScopeMiddleware struct {
	resolver ScopeResolver
}

func NewScopeMiddleware(resolver ScopeResolver) *ScopeMiddleware {
	return &ScopeMiddleware{resolver: resolver}
}

// ResolveScope attaches the caller's scope. Requests without a token run
// with the public scope; a token that fails validation is rejected.
func (m *ScopeMiddleware) ResolveScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.BearerOrCookie(c)
		if token == "" {
			c.Set(ctxScopeKey, access.Public())
			c.Next()
			return
		}

		scope, err := m.resolver.ResolveScope(token)
		if err != nil {
			slog.Warn("scope token validation failed", "error", err.Error())
			httperr.AbortWithCode(c, http.StatusUnauthorized, "invalid_token", err, "Invalid or expired token", nil)
			return
		}
		c.Set(ctxScopeKey, scope)
		c.Next()
	}
}

// RequireAdmin rejects callers whose scope manages nothing.
func (m *ScopeMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetScope(c).IsAdmin() {
			httperr.AbortWithCode(c, http.StatusUnauthorized, "admin_token_required", ErrAdminTokenRequired, "Admin token required", nil)
			return
		}
		c.Next()
	}
}

func GetScope(c *gin.Context) access.Scope {
	if v, ok := c.Get(ctxScopeKey); ok {
		if scope, ok := v.(access.Scope); ok {
			return scope
		}
	}
	return access.Public()
}
