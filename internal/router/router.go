// Package router builds the echo instance: global middleware in order, the
// error handler and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/company-tracker/internal/handler"
	"github.com/deppfellow/company-tracker/internal/middleware"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/deppfellow/company-tracker/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler
	router.IPExtractor = middlewares.RateLimit.IPExtractor()

	router.Pre(middlewares.Global.RemoveTrailingSlash())

	// RequestID and the New Relic transaction must exist before EnhanceContext
	// builds the request logger.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Metrics.Collect(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, h)

	companies := router.Group("/companies")
	companies.GET("", handler.Handle(
		h.Company.Handler,
		h.Company.ListCompanies,
		http.StatusOK,
		&model.ListCompaniesPayload{},
	))
	companies.POST("", handler.Handle(
		h.Company.Handler,
		h.Company.CreateCompany,
		http.StatusCreated,
		&model.CreateCompanyPayload{},
		h.Company.CheckCreateCompany,
	))

	return router
}
