package repository

import (
	"github.com/deppfellow/company-tracker/internal/config"
	"github.com/deppfellow/company-tracker/internal/server"
)

// Repositories groups the repository instances handed to services.
type Repositories struct {
	Company CompanyRepository
}

// NewRepositories picks the implementations matching the opened database.
func NewRepositories(s *server.Server) *Repositories {
	var company CompanyRepository

	switch s.DB.Driver {
	case config.DriverSQLite:
		company = NewSQLiteCompanyRepository(s.DB)
	default:
		company = NewPostgresCompanyRepository(s.DB)
	}

	return &Repositories{
		Company: company,
	}
}
