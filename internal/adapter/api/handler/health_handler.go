package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ecosprout/pkg/logger"
)

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	environment string
	checks      map[string]HealthCheck
}

var healthHandler *HealthHandler

func NewHealthHandler(environment string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		checks:      checks,
	}
}

func SetupHealthHandler(environment string, checks map[string]HealthCheck) {
	healthHandler = NewHealthHandler(environment, checks)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

// CheckHealth is the liveness probe.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":     true,
		"status":      "OK",
		"environment": h.environment,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckReadiness runs every dependency probe and answers 503 if any fails.
func (h *HealthHandler) CheckReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn("Readiness check %s failed: %v", name, err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	return c.JSON(status, map[string]interface{}{
		"success":   status == http.StatusOK,
		"checks":    results,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
