// Package repository holds the SQL for the company store.
//
// Services only see the CompanyRepository interface. There is one
// implementation per database driver; both keep the driver's error in the
// returned chain so sqlerr can classify constraint failures.
package repository

import (
	"context"

	"github.com/deppfellow/company-tracker/internal/model"
)

// CompanyRepository persists companies.
type CompanyRepository interface {
	// Create inserts the company and returns the stored row.
	Create(ctx context.Context, company model.NewCompany) (*model.Company, error)

	// List returns every company in insertion order. It never returns nil
	// on success.
	List(ctx context.Context) ([]model.Company, error)

	// ExistsByName reports whether a company with exactly this name exists.
	ExistsByName(ctx context.Context, name string) (bool, error)
}
