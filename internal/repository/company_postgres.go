package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/company-tracker/internal/database"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/jackc/pgx/v5"
)

const companyColumns = `id, name, status, application_link, notes, last_update, created_at`

type PostgresCompanyRepository struct {
	db *database.Database
}

func NewPostgresCompanyRepository(db *database.Database) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) Create(ctx context.Context, company model.NewCompany) (*model.Company, error) {
	stmt := `
		INSERT INTO companies (name, status, application_link, notes)
		VALUES (@name, @status, @application_link, @notes)
		RETURNING ` + companyColumns

	rows, err := r.db.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":             company.Name,
		"status":           string(company.Status),
		"application_link": company.ApplicationLink,
		"notes":            company.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create company query for name=%s: %w", company.Name, err)
	}

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		return nil, fmt.Errorf("failed to collect row from table:companies for name=%s: %w", company.Name, err)
	}

	return &created, nil
}

func (r *PostgresCompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list companies query: %w", err)
	}

	companies, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Company])
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows from table:companies: %w", err)
	}

	return companies, nil
}

func (r *PostgresCompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool

	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE name = @name)`,
		pgx.NamedArgs{"name": name},
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company name=%s: %w", name, err)
	}

	return exists, nil
}

var _ CompanyRepository = (*PostgresCompanyRepository)(nil)
