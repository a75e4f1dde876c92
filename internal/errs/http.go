package errs

import (
	"net/http"
	"strings"
)

// NewBadRequestError creates a 400 HTTPError.
//
// code overrides the default "BAD_REQUEST" when non-nil. errors and action are
// passed through untouched.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewFieldValidationError creates a 400 HTTPError whose body is the field map.
func NewFieldValidationError(fields FieldErrors) *HTTPError {
	code := "VALIDATION_FAILED"
	httpErr := NewBadRequestError(validationSummary(fields), true, &code, fields.List(), nil)
	httpErr.Fields = fields

	return httpErr
}

// NewFieldError is a shortcut for a single field failure.
func NewFieldError(field, message string) *HTTPError {
	fields := FieldErrors{}
	fields.Add(field, message)

	return NewFieldValidationError(fields)
}

// NewNotFoundError creates a 404 HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 HTTPError with the generic status text.
// The underlying cause is logged by the error handler, never returned.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

func validationSummary(fields FieldErrors) string {
	names := fields.Fields()
	if len(names) == 0 {
		return "Validation failed"
	}

	return "Validation failed for " + strings.Join(names, ", ")
}
