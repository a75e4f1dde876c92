//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/company-tracker/internal/config"
	"github.com/deppfellow/company-tracker/internal/database"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/deppfellow/company-tracker/internal/sqlerr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with a reachable PostgreSQL configured the same way as the service:
//
//	COMPANIES_DATABASE.DRIVER=postgres COMPANIES_DATABASE.HOST=localhost ... go test -tags integration ./internal/repository/
func newTestPostgresRepository(t *testing.T) *PostgresCompanyRepository {
	t.Helper()

	cfg, err := config.LoadConfig()
	if err != nil || cfg.Database.Driver != config.DriverPostgres {
		t.Skip("postgres is not configured")
	}

	ctx := context.Background()
	log := zerolog.Nop()

	require.NoError(t, database.Migrate(ctx, &log, cfg))

	db, err := database.New(cfg, &log, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	truncate := func() {
		_, err := db.Pool.Exec(ctx, `TRUNCATE companies RESTART IDENTITY`)
		require.NoError(t, err)
	}
	truncate()
	t.Cleanup(truncate)

	return NewPostgresCompanyRepository(db)
}

func TestPostgresCompanyRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := newTestPostgresRepository(t)

	companies, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, companies)

	for _, name := range []string{"Zeta", "Acme", "Mid"} {
		_, err := repo.Create(ctx, model.NewCompany{Name: name, Status: model.StatusHiring})
		require.NoError(t, err)
	}

	companies, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)
	assert.Equal(t, "Zeta", companies[0].Name)
	assert.Equal(t, "Acme", companies[1].Name)
	assert.Equal(t, "Mid", companies[2].Name)
}

func TestPostgresCompanyRepository_CreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		company  model.NewCompany
		wantCode sqlerr.Code
		unique   bool
	}{
		{
			name:     "duplicate name",
			company:  model.NewCompany{Name: "Acme", Status: model.StatusHiring},
			wantCode: sqlerr.UniqueViolation,
			unique:   true,
		},
		{
			name:     "unknown status",
			company:  model.NewCompany{Name: "Globex", Status: "Layoffsen"},
			wantCode: sqlerr.CheckViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := newTestPostgresRepository(t)

			_, err := repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
			require.NoError(t, err)

			_, err = repo.Create(ctx, tt.company)
			require.Error(t, err)

			var pgErr *pgconn.PgError
			require.True(t, errors.As(err, &pgErr), "expected *pgconn.PgError, got %v", err)
			assert.Equal(t, tt.wantCode, sqlerr.ErrCode(err))
			assert.Equal(t, tt.unique, sqlerr.IsUniqueViolation(err))
		})
	}
}

func TestPostgresCompanyRepository_ExistsByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestPostgresRepository(t)

	_, err := repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
	require.NoError(t, err)

	exists, err := repo.ExistsByName(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "acme")
	require.NoError(t, err)
	assert.False(t, exists)
}
