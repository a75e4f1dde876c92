package handler

import (
	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/deppfellow/company-tracker/internal/middleware"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/deppfellow/company-tracker/internal/server"
	"github.com/deppfellow/company-tracker/internal/service"
	"github.com/labstack/echo/v4"
)

// CompanyHandler serves the /companies resource.
type CompanyHandler struct {
	Handler
	companyService *service.CompanyService
}

func NewCompanyHandler(s *server.Server, companyService *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		Handler:        NewHandler(s),
		companyService: companyService,
	}
}

// ListCompanies returns every company in insertion order.
func (h *CompanyHandler) ListCompanies(c echo.Context, _ *model.ListCompaniesPayload) ([]model.CompanyResponse, error) {
	companies, err := h.companyService.ListCompanies(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return model.NewCompanyResponses(companies), nil
}

// CreateCompany stores a company and returns its public representation.
func (h *CompanyHandler) CreateCompany(c echo.Context, payload *model.CreateCompanyPayload) (model.CompanyResponse, error) {
	company, err := h.companyService.CreateCompany(c.Request().Context(), payload)
	if err != nil {
		return model.CompanyResponse{}, err
	}

	middleware.CompaniesCreatedTotal.Inc()

	return model.NewCompanyResponse(*company), nil
}

// CheckCreateCompany reports a taken name alongside the other failures of a
// payload that did not validate.
func (h *CompanyHandler) CheckCreateCompany(c echo.Context, payload *model.CreateCompanyPayload) (errs.FieldErrors, error) {
	return h.companyService.CheckName(c.Request().Context(), payload.Name)
}
