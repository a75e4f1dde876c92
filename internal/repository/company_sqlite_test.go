package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/deppfellow/company-tracker/internal/database"
	"github.com/deppfellow/company-tracker/internal/model"
	"github.com/deppfellow/company-tracker/internal/sqlerr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteRepository(t *testing.T) *SQLiteCompanyRepository {
	t.Helper()

	log := zerolog.Nop()
	sqlDB, err := database.OpenSQLite(filepath.Join(t.TempDir(), "companies.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.MigrateSQLite(context.Background(), &log, sqlDB))

	return NewSQLiteCompanyRepository(database.NewFromSQL(sqlDB, &log, 0))
}

func TestSQLiteCompanyRepository_ListEmpty(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	companies, err := repo.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, companies)
	assert.Empty(t, companies)
}

func TestSQLiteCompanyRepository_CreateAndListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	for _, name := range []string{"Zeta", "Acme", "Mid"} {
		_, err := repo.Create(ctx, model.NewCompany{Name: name, Status: model.StatusHiring})
		require.NoError(t, err)
	}

	companies, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	assert.Equal(t, "Zeta", companies[0].Name)
	assert.Equal(t, "Acme", companies[1].Name)
	assert.Equal(t, "Mid", companies[2].Name)
	assert.Less(t, companies[0].ID, companies[1].ID)
	assert.False(t, companies[0].CreatedAt.IsZero())
	assert.Equal(t, companies[0].CreatedAt, companies[0].LastUpdate)
}

func TestSQLiteCompanyRepository_CreateReturnsStoredFields(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	created, err := repo.Create(context.Background(), model.NewCompany{
		Name:            "Acme",
		Status:          model.StatusLayoffs,
		ApplicationLink: "https://acme.example/jobs",
		Notes:           "applied twice",
	})
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, model.StatusLayoffs, created.Status)
	assert.Equal(t, "https://acme.example/jobs", created.ApplicationLink)
	assert.Equal(t, "applied twice", created.Notes)
}

func TestSQLiteCompanyRepository_DuplicateNameIsUniqueViolation(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	_, err := repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
	require.Error(t, err)

	assert.True(t, sqlerr.IsUniqueViolation(err))
	converted := sqlerr.Convert(err)
	require.NotNil(t, converted)
	assert.Equal(t, "companies", converted.TableName)
	assert.Equal(t, "name", converted.ColumnName)
}

func TestSQLiteCompanyRepository_NameIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	_, err := repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.NewCompany{Name: "acme", Status: model.StatusHiring})
	assert.NoError(t, err)
}

func TestSQLiteCompanyRepository_StatusCheckConstraint(t *testing.T) {
	repo := newTestSQLiteRepository(t)

	_, err := repo.Create(context.Background(), model.NewCompany{Name: "Acme", Status: "Layoffsen"})
	require.Error(t, err)

	assert.Equal(t, sqlerr.CheckViolation, sqlerr.ErrCode(err))
}

func TestSQLiteCompanyRepository_ExistsByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestSQLiteRepository(t)

	exists, err := repo.ExistsByName(ctx, "Acme")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, model.NewCompany{Name: "Acme", Status: model.StatusHiring})
	require.NoError(t, err)

	exists, err = repo.ExistsByName(ctx, "Acme")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "ACME")
	require.NoError(t, err)
	assert.False(t, exists)
}
