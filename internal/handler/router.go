package handler

import (
	"net/http"

	"slot-engine/internal/handler/api"
	"slot-engine/internal/handler/middleware"
	"slot-engine/internal/pkg/config"
	"slot-engine/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// Handlers groups the API handlers mounted under /api.
type Handlers struct {
	Slot         *api.SlotHandler
	Capacity     *api.CapacityHandler
	Subscription *api.SubscriptionHandler
}

func NewHandlers(slot *api.SlotHandler, capacity *api.CapacityHandler, subscription *api.SubscriptionHandler) Handlers {
	return Handlers{Slot: slot, Capacity: capacity, Subscription: subscription}
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *middleware.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	handlers Handlers,
	scopeMiddleware *middleware.ScopeMiddleware,
) {
	setupMiddleware(engine, cfg, logger, m, scopeMiddleware)
	setupRoutes(engine, gatherer, handlers, scopeMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics, scopeMiddleware *middleware.ScopeMiddleware) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.ErrorHandler())
	engine.Use(scopeMiddleware.ResolveScope())
}

func setupRoutes(engine *gin.Engine, gatherer prometheus.Gatherer, h Handlers, scopeMiddleware *middleware.ScopeMiddleware) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		slots := apiGroup.Group("/slots")
		addRoutes(slots, []route{
			{Method: http.MethodGet, Path: "", Handler: h.Slot.List},
			{Method: http.MethodGet, Path: "/week", Handler: h.Slot.Week},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Slot.Get},
			{Method: http.MethodPost, Path: "/:id/hold", Handler: h.Slot.Hold},
		})

		professionals := apiGroup.Group("/professionals")
		addRoutes(professionals, []route{
			{Method: http.MethodGet, Path: "/:id/days", Handler: h.Capacity.Calendar},
			{Method: http.MethodPost, Path: "/:id/days/:date/book", Handler: h.Capacity.Book},
		})

		subscriptions := apiGroup.Group("/subscriptions")
		addRoutes(subscriptions, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Subscription.Subscribe},
			{Method: http.MethodPost, Path: "/:token/activate", Handler: h.Subscription.Activate},
			{Method: http.MethodPost, Path: "/:token/unsubscribe", Handler: h.Subscription.Unsubscribe},
		})

		admin := apiGroup.Group("/admin")
		requireAdmin := []gin.HandlerFunc{scopeMiddleware.RequireAdmin()}
		addRoutes(admin, []route{
			{Method: http.MethodPost, Path: "/slots", Handler: h.Slot.Create, Mw: requireAdmin},
			{Method: http.MethodPost, Path: "/slots/:id/confirm", Handler: h.Slot.Confirm, Mw: requireAdmin},
			{Method: http.MethodPost, Path: "/slots/:id/release", Handler: h.Slot.Release, Mw: requireAdmin},
			{Method: http.MethodPost, Path: "/slots/:id/block", Handler: h.Slot.Block, Mw: requireAdmin},
			{Method: http.MethodPost, Path: "/generate", Handler: h.Slot.Generate, Mw: requireAdmin},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
