package middleware

import (
	"time"

	"slot-engine/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records one observation per request keyed by the matched route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
