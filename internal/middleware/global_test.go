package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runErrorHandler(t *testing.T, method string, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(method, "/companies", nil), rec)

	(&GlobalMiddlewares{}).GlobalErrorHandler(err, c)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGlobalErrorHandler_FieldErrorsAreTheBody(t *testing.T) {
	rec, _ := runErrorHandler(t, http.MethodPost, errs.NewFieldError("name", "This field is required."))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"name":["This field is required."]}`, rec.Body.String())
}

func TestGlobalErrorHandler_HTTPErrorEnvelope(t *testing.T) {
	rec, body := runErrorHandler(t, http.MethodPost, errs.NewBadRequestError("Malformed request body", false, nil, nil, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body["code"])
	assert.Equal(t, "Malformed request body", body["message"])
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
}

func TestGlobalErrorHandler_RouteNotFound(t *testing.T) {
	rec, body := runErrorHandler(t, http.MethodGet, echo.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body["message"])
}

func TestGlobalErrorHandler_EchoError(t *testing.T) {
	rec, body := runErrorHandler(t, http.MethodPut, echo.ErrMethodNotAllowed)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
}

func TestGlobalErrorHandler_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", TableName: "companies", ConstraintName: "companies_name_key"}

	rec, body := runErrorHandler(t, http.MethodPost, fmt.Errorf("table:companies: %w", pgErr))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "COMPANY_ALREADY_EXISTS", body["code"])
}

func TestGlobalErrorHandler_UnknownErrorIsGeneric500(t *testing.T) {
	rec, body := runErrorHandler(t, http.MethodGet, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestGlobalErrorHandler_HeadHasNoBody(t *testing.T) {
	rec, _ := runErrorHandler(t, http.MethodHead, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFromError(nil, http.StatusOK))
	assert.Equal(t, http.StatusBadRequest, statusFromError(errs.NewFieldError("name", "x"), http.StatusOK))
	assert.Equal(t, http.StatusNotFound, statusFromError(echo.ErrNotFound, http.StatusOK))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("boom"), http.StatusOK))
}
