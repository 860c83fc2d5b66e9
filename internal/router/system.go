package router

import (
	"github.com/deppfellow/users-api/internal/handler"
	"github.com/deppfellow/users-api/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the users
// API: health, metrics and docs.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, metrics *middleware.MetricsMiddleware) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", metrics.Handler())

	// openapi.json and openapi.html live under ./static.
	r.Static("/static", "static")
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
