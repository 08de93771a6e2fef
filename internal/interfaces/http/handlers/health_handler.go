package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/logging"
	appmetrics "github.com/turtacn/PharmaLens/internal/infrastructure/monitoring/prometheus"
)

// CheckFunc probes one backing dependency.
type CheckFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  map[string]CheckFunc
	timeout time.Duration
	metrics *appmetrics.AppMetrics
	logger  logging.Logger
}

// NewHealthHandler builds the handler over a set of named dependency checks.
// metrics may be nil.
func NewHealthHandler(checks map[string]CheckFunc, metrics *appmetrics.AppMetrics, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HealthHandler{
		checks:  checks,
		timeout: 3 * time.Second,
		metrics: metrics,
		logger:  logger.Named("handler.health"),
	}
}

// Liveness handles GET /healthz.  It only proves the process is serving.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Readiness handles GET /readyz, probing every registered dependency.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp := readinessResponse{Status: "ready", Checks: map[string]string{}}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err := h.checks[name](ctx)
		up := 1.0
		if err != nil {
			up = 0
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			h.logger.Warn("readiness check failed",
				logging.String("component", name),
				logging.Err(err))
		} else {
			resp.Checks[name] = "ok"
		}
		if h.metrics != nil {
			h.metrics.HealthCheckStatus.WithLabelValues(name).Set(up)
		}
	}

	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
