// Package api provides HTTP handlers for the citegraph server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthChecker reports database connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CircuitStater reports the state of the lookup circuit breaker.
type CircuitStater interface {
	CircuitState() string
}

// HealthHandler serves health check endpoints. A nil db means the server
// runs without persistence.
type HealthHandler struct {
	db        HealthChecker
	circuit   CircuitStater
	log       *logrus.Logger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(db HealthChecker, circuit CircuitStater, log *logrus.Logger, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		circuit:   circuit,
		log:       log,
		version:   version,
		startTime: time.Now(),
	}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	Lookup        string  `json:"lookup"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := healthResponse{
		Status:        "ok",
		Version:       h.version,
		Database:      "not_configured",
		Lookup:        "unknown",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp.Database = "connected"
		if err := h.db.HealthCheck(ctx); err != nil {
			resp.Database = "disconnected"
		}
	}

	if h.circuit != nil {
		resp.Lookup = h.circuit.CircuitState()
	}

	c.JSON(http.StatusOK, resp)
}

// Readiness handles GET /api/v1/ready. A failing database makes the server
// not ready; an open lookup circuit only degrades it.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"database": "not_configured", "lookup": "ok"}
	status := "ready"
	statusCode := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks["database"] = "ok"
		if err := h.db.HealthCheck(ctx); err != nil {
			h.log.WithError(err).Error("readiness: database health check failed")
			checks["database"] = "error"
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
		}
	}

	if h.circuit != nil && h.circuit.CircuitState() != "closed" {
		checks["lookup"] = "degraded"
	}

	c.JSON(statusCode, readinessResponse{Status: status, Checks: checks})
}
