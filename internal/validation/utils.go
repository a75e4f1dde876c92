package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Messages written back for failed fields.
const (
	MsgRequired      = "This field is required."
	MsgInvalidURL    = "Enter a valid URL."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidChoice = "\"%v\" is not a valid choice."
	MsgMaxLength     = "Ensure this field has no more than %s characters."
	MsgMinLength     = "Ensure this field has at least %s characters."
	MsgInvalid       = "Invalid value."
	MsgNotAString    = "Not a valid string."
	MsgNotANumber    = "A valid number is required."
	MsgNotABoolean   = "Must be a valid boolean."
)

// CustomValidationError is a failure no struct tag can express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors lets Validate return several custom failures.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// choiceTags are custom tags whose failure reads `"<value>" is not a valid choice.`
var choiceTags = map[string]bool{}

// RegisterChoiceValidation registers fn under tag and reports failures with
// the invalid-choice message.
func RegisterChoiceValidation(tag string, fn validator.Func) error {
	if err := RegisterValidation(tag, fn); err != nil {
		return err
	}

	registerMu.Lock()
	choiceTags[tag] = true
	registerMu.Unlock()

	return nil
}

// BindAndValidate binds the request into payload and validates it.
//
// Malformed bodies come back as a plain 400. A JSON value of the wrong type
// and validation failures come back as a 400 whose body is the field map.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return bindError(err)
	}

	if fields := validateStruct(payload); len(fields) > 0 {
		return errs.NewFieldValidationError(fields)
	}

	return nil
}

func bindError(err error) error {
	var echoErr *echo.HTTPError
	if !errors.As(err, &echoErr) {
		return errs.NewBadRequestError("Malformed request body", false, nil, nil, nil)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(echoErr.Internal, &typeErr) && typeErr.Field != "" {
		return errs.NewFieldError(typeErr.Field, typeMessage(typeErr.Type))
	}

	message := http.StatusText(echoErr.Code)
	if msg, ok := echoErr.Message.(string); ok && msg != "" {
		message = msg
	}

	if echoErr.Code == http.StatusBadRequest {
		return errs.NewBadRequestError(message, false, nil, nil, nil)
	}

	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(echoErr.Code)),
		Message: message,
		Status:  echoErr.Code,
	}
}

func typeMessage(t reflect.Type) string {
	if t == nil {
		return MsgInvalid
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return MsgNotAString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return MsgNotANumber
	case reflect.Bool:
		return MsgNotABoolean
	default:
		return MsgInvalid
	}
}

func validateStruct(v Validatable) errs.FieldErrors {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return nil
}

func extractValidationError(err error) errs.FieldErrors {
	fields := errs.FieldErrors{}

	var custom CustomValidationErrors
	if errors.As(err, &custom) {
		for _, ce := range custom {
			fields.Add(ce.Field, ce.Message)
		}
		return fields
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields.Add("non_field_errors", err.Error())
		return fields
	}

	for _, fe := range validationErrors {
		fields.Add(fe.Field(), fieldMessage(fe))
	}

	return fields
}

func fieldMessage(fe validator.FieldError) string {
	registerMu.Lock()
	isChoice := choiceTags[fe.Tag()]
	registerMu.Unlock()
	if isChoice {
		return fmt.Sprintf(MsgInvalidChoice, fe.Value())
	}

	switch fe.Tag() {
	case "required", "notblank":
		return MsgRequired

	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(MsgMaxLength, fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())

	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf(MsgMinLength, fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())

	case "oneof":
		return fmt.Sprintf(MsgInvalidChoice, fe.Value())

	case "url", "http_url":
		return MsgInvalidURL

	case "email":
		return MsgInvalidEmail

	case "uuid":
		return "Must be a valid UUID."

	default:
		return MsgInvalid
	}
}
