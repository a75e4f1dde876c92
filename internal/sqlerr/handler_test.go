package sqlerr

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok, "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError_PostgresUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		Message:        `duplicate key value violates unique constraint "companies_name_key"`,
		TableName:      "companies",
		ConstraintName: "companies_name_key",
	}
	err := fmt.Errorf("failed to execute create company query: %w", pgErr)

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "COMPANY_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Company with this Name already exists", httpErr.Message)
	assert.True(t, IsUniqueViolation(err))
}

func TestHandleError_PostgresNotNullViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23502", TableName: "companies", ColumnName: "name"}

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, "COMPANY_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Name is required", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is required"}}, httpErr.Errors)
}

func TestHandleError_PostgresCheckViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23514", TableName: "companies", ConstraintName: "companies_status_check"}

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "COMPANY_INVALID", httpErr.Code)
}

func TestHandleError_UnknownPostgresErrorIsInternal(t *testing.T) {
	err := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}

	httpErr := asHTTPError(t, HandleError(err))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestHandleError_NoRows(t *testing.T) {
	withTable := fmt.Errorf("failed to collect row from table:companies for name=x: %w", pgx.ErrNoRows)
	httpErr := asHTTPError(t, HandleError(withTable))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Company not found", httpErr.Message)

	plain := asHTTPError(t, HandleError(sql.ErrNoRows))
	assert.Equal(t, "Resource not found", plain.Message)
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewFieldError("name", "This field is required.")

	assert.Same(t, original, HandleError(original))
}

func TestHandleError_GenericErrorIsInternal(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("boom")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestMapCode(t *testing.T) {
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, Other, MapCode("40001"))
}

func TestMapSeverity(t *testing.T) {
	assert.Equal(t, SeverityFatal, MapSeverity("FATAL"))
	assert.Equal(t, SeverityError, MapSeverity("ERROR"))
	assert.Equal(t, SeverityError, MapSeverity("unknown"))
}

func TestErrCode_NonDatabaseError(t *testing.T) {
	assert.Equal(t, Other, ErrCode(fmt.Errorf("plain")))
	assert.Nil(t, Convert(fmt.Errorf("plain")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "name", extractColumnForUniqueViolation("companies_name_key"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Equal(t, "", extractColumnForUniqueViolation("pk"))
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "company", singular("companies"))
	assert.Equal(t, "user", singular("users"))
	assert.Equal(t, "data", singular("data"))
}
