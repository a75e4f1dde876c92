package handler

import (
	"github.com/deppfellow/company-tracker/internal/server"
	"github.com/deppfellow/company-tracker/internal/service"
	"github.com/deppfellow/company-tracker/static"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Company *CompanyHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s, static.FS),
		Company: NewCompanyHandler(s, services.Company),
	}
}
