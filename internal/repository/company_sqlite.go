package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/company-tracker/internal/database"
	"github.com/deppfellow/company-tracker/internal/model"
)

// sqliteTimeLayout is how timestamps are written to TEXT columns.
const sqliteTimeLayout = time.RFC3339Nano

type SQLiteCompanyRepository struct {
	db *database.Database
}

func NewSQLiteCompanyRepository(db *database.Database) *SQLiteCompanyRepository {
	return &SQLiteCompanyRepository{db: db}
}

func (r *SQLiteCompanyRepository) Create(ctx context.Context, company model.NewCompany) (*model.Company, error) {
	defer r.db.LogSlow("companies.create", time.Now())

	now := time.Now().UTC()
	stamp := now.Format(sqliteTimeLayout)

	res, err := r.db.SQL.ExecContext(ctx, `
INSERT INTO companies (name, status, application_link, notes, last_update, created_at)
VALUES (?, ?, ?, ?, ?, ?);
`, company.Name, string(company.Status), company.ApplicationLink, company.Notes, stamp, stamp)
	if err != nil {
		return nil, fmt.Errorf("failed to execute create company query for name=%s: %w", company.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read id from table:companies for name=%s: %w", company.Name, err)
	}

	return &model.Company{
		ID:              id,
		Name:            company.Name,
		Status:          company.Status,
		ApplicationLink: company.ApplicationLink,
		Notes:           company.Notes,
		LastUpdate:      now,
		CreatedAt:       now,
	}, nil
}

func (r *SQLiteCompanyRepository) List(ctx context.Context) ([]model.Company, error) {
	defer r.db.LogSlow("companies.list", time.Now())

	rows, err := r.db.SQL.QueryContext(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id ASC;`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute list companies query: %w", err)
	}
	defer rows.Close()

	companies := []model.Company{}
	for rows.Next() {
		company, err := scanSQLiteCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row from table:companies: %w", err)
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows from table:companies: %w", err)
	}

	return companies, nil
}

func (r *SQLiteCompanyRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	defer r.db.LogSlow("companies.exists_by_name", time.Now())

	var exists int
	err := r.db.SQL.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM companies WHERE name = ?);`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company name=%s: %w", name, err)
	}

	return exists == 1, nil
}

func scanSQLiteCompany(rows *sql.Rows) (model.Company, error) {
	var (
		c          model.Company
		status     string
		lastUpdate string
		createdAt  string
	)

	if err := rows.Scan(&c.ID, &c.Name, &status, &c.ApplicationLink, &c.Notes, &lastUpdate, &createdAt); err != nil {
		return c, err
	}

	c.Status = model.Status(status)

	var err error
	if c.LastUpdate, err = time.Parse(sqliteTimeLayout, lastUpdate); err != nil {
		return c, fmt.Errorf("parse last_update: %w", err)
	}
	if c.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return c, fmt.Errorf("parse created_at: %w", err)
	}

	return c, nil
}

var _ CompanyRepository = (*SQLiteCompanyRepository)(nil)
