package router

import (
	"github.com/deppfellow/company-tracker/internal/handler"
	"github.com/deppfellow/company-tracker/internal/middleware"
	"github.com/deppfellow/company-tracker/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not part of the
// companies API.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.GET("/metrics", echo.WrapHandler(middleware.MetricsHandler()))

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
