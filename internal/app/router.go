package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kidpech/xbox_link_demo/internal/app/diagnostics"
	"github.com/kidpech/xbox_link_demo/internal/app/middleware"
	"github.com/kidpech/xbox_link_demo/internal/config"
	"github.com/kidpech/xbox_link_demo/internal/domain/xbox"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/auth"
	"github.com/kidpech/xbox_link_demo/internal/infrastructure/ratelimit"
)

// RouterDeps aggregates HTTP dependencies.
type RouterDeps struct {
	Config      *config.Config
	XboxHandler *xbox.Handler
	Diagnostics *diagnostics.Handler
	AuthManager *auth.Manager
	Logger      *zap.Logger
	LogBuffer   *diagnostics.LogBuffer
	IPLimiter   ratelimit.Limiter
	UserLimiter ratelimit.Limiter
}

// NewRouter builds the gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger, deps.LogBuffer))
	limited := deps.Config == nil || deps.Config.RateLimit.Enabled

	// The gateway route answers its own preflight with fixed headers, so its
	// 429s carry the same wildcard origin.
	gateway := r.Group("/api/v1")
	if limited {
		gateway.Use(middleware.RateLimit(deps.IPLimiter, deps.UserLimiter, deps.Logger,
			middleware.WithRejectHeader("Access-Control-Allow-Origin", "*")))
	}
	deps.XboxHandler.RegisterRoutes(gateway)

	api := r.Group("/api/v1")
	if deps.Config != nil {
		api.Use(middleware.CORS(deps.Config.Cors))
	}
	if limited {
		api.Use(middleware.RateLimit(deps.IPLimiter, deps.UserLimiter, deps.Logger))
	}
	paths := []string{"/health"}
	deps.Diagnostics.RegisterPublic(api)

	if deps.Config == nil || deps.Config.Monitoring.PrometheusEnabled {
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))
		paths = append(paths, "/metrics")
	}

	if deps.AuthManager != nil {
		debug := api.Group("")
		debug.Use(middleware.AuthMiddleware(deps.AuthManager), middleware.AdminOnly())
		deps.Diagnostics.RegisterProtected(debug)
		paths = append(paths, "/debug/logs")
	}

	// Preflights for the diagnostics routes; CORS answers them before this runs.
	for _, path := range paths {
		api.OPTIONS(path, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	}

	return r
}
