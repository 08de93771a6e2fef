// Package http wires the gin router and HTTP server for the analysis API.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/PharmaLens/internal/config"
	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PharmaLens/internal/interfaces/http/handlers"
	"github.com/turtacn/PharmaLens/internal/interfaces/http/middleware"
)

// RouterConfig collects everything the router needs.  Collector and Metrics
// may be nil; the /metrics route is then omitted.
type RouterConfig struct {
	Server    config.ServerConfig
	Analysis  *handlers.AnalysisHandler
	Health    *handlers.HealthHandler
	Logger    logging.Logger
	Collector appmetrics.MetricsCollector
	Metrics   *appmetrics.AppMetrics
}

// NewRouter assembles the middleware chain and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(cfg.Server.RateLimitRPS).Middleware())
	}

	r.GET("/healthz", cfg.Health.Liveness)
	r.GET("/readyz", cfg.Health.Readiness)
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/analysis", cfg.Analysis.Analyze)
		v1.POST("/analysis/name", cfg.Analysis.AnalyzeByName)
		v1.POST("/analysis/structure", cfg.Analysis.AnalyzeByStructure)
		v1.GET("/analysis/history", cfg.Analysis.ListHistory)
		v1.GET("/analysis/:requestId", cfg.Analysis.GetAnalysis)
	}

	return r
}
