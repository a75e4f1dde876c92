package model

import (
	"strings"

	"github.com/deppfellow/company-tracker/internal/validation"
	"github.com/go-playground/validator/v10"
)

func init() {
	err := validation.RegisterChoiceValidation("company_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(err)
	}
}

// CreateCompanyPayload is the body of POST /companies, as JSON or form data.
// Status is a pointer so an omitted status (defaulted) differs from an
// explicit empty one (rejected).
type CreateCompanyPayload struct {
	Name            string  `json:"name" form:"name" validate:"required,max=30"`
	Status          *Status `json:"status" form:"status" validate:"omitempty,company_status"`
	ApplicationLink string  `json:"application_link" form:"application_link" validate:"omitempty,url"`
	Notes           string  `json:"notes" form:"notes" validate:"max=100"`
}

// Validate trims the text fields before checking them, so a name made of
// spaces counts as missing.
func (p *CreateCompanyPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.ApplicationLink = strings.TrimSpace(p.ApplicationLink)
	p.Notes = strings.TrimSpace(p.Notes)

	return validation.Struct(p)
}

// ToNewCompany applies the defaults for omitted optional fields.
func (p *CreateCompanyPayload) ToNewCompany() NewCompany {
	status := DefaultStatus
	if p.Status != nil {
		status = *p.Status
	}

	return NewCompany{
		Name:            p.Name,
		Status:          status,
		ApplicationLink: p.ApplicationLink,
		Notes:           p.Notes,
	}
}

// ListCompaniesPayload is the (empty) input of GET /companies.
type ListCompaniesPayload struct{}

func (p *ListCompaniesPayload) Validate() error {
	return nil
}

// CompanyResponse is the public shape of a company.
type CompanyResponse struct {
	Name            string `json:"name"`
	Status          Status `json:"status"`
	ApplicationLink string `json:"application_link"`
	Notes           string `json:"notes"`
}

func NewCompanyResponse(c Company) CompanyResponse {
	return CompanyResponse{
		Name:            c.Name,
		Status:          c.Status,
		ApplicationLink: c.ApplicationLink,
		Notes:           c.Notes,
	}
}

// NewCompanyResponses never returns nil, so an empty list encodes as [].
func NewCompanyResponses(companies []Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, NewCompanyResponse(c))
	}
	return out
}
