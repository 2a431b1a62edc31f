package cookie

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ScopeTokenCookieName holds the admin scope token when the dashboard is
// served from the same site.
const ScopeTokenCookieName = "admin_token"

func GetScopeToken(c *gin.Context) string {
	token, _ := c.Cookie(ScopeTokenCookieName)
	return token
}

// BearerOrCookie prefers the Authorization header and falls back to the cookie.
func BearerOrCookie(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if token := strings.TrimSpace(h[len("Bearer "):]); token != "" {
			return token
		}
	}
	return GetScopeToken(c)
}
