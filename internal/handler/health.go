package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/users-api/internal/middleware"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/labstack/echo/v4"
)

// pingFunc checks one dependency.
type pingFunc func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are
// reachable.
type HealthHandler struct {
	Handler
	checks map[string]pingFunc
}

// NewHealthHandler registers the checks enabled in the observability
// config. The database check decides overall health; Redis only degrades
// caching and jobs, so its failure is reported but not fatal.
func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		checks:  map[string]pingFunc{},
	}

	obs := s.Config.Observability
	if s.DB != nil && obs.HealthCheckEnabled("database") {
		h.checks["database"] = s.DB.Pool.Ping
	}
	if s.Redis != nil && obs.HealthCheckEnabled("redis") {
		h.checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}
	return h
}

func (h *HealthHandler) recordFailure(checkType string, elapsed time.Duration, err error) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       checkType,
		"operation":        "health_check",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}

// CheckHealth answers 200 when every critical check passes, else 503.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	checks := make(map[string]any, len(h.checks))
	isHealthy := true

	for name, ping := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			checks[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}
			if name == "database" {
				isHealthy = false
			}

			logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
			h.recordFailure(name, elapsed, err)
			continue
		}

		checks[name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
		logger.Debug().Str("check", name).Dur("response_time", elapsed).Msg("health check passed")
	}

	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	status := http.StatusOK
	if !isHealthy {
		response["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	logger.Info().
		Bool("healthy", isHealthy).
		Dur("total_duration", time.Since(start)).
		Msg("health check completed")

	return c.JSON(status, response)
}
