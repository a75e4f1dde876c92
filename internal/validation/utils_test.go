package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	if err := RegisterChoiceValidation("test_color", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "red" || v == "blue"
	}); err != nil {
		panic(err)
	}
}

type samplePayload struct {
	Title string `json:"title" form:"title" validate:"required,max=5"`
	Color string `json:"color" form:"color" validate:"omitempty,test_color"`
	Link  string `json:"link" form:"link" validate:"omitempty,url"`
	Count int    `json:"count" form:"count" validate:"max=3"`
}

func (p *samplePayload) Validate() error {
	return Struct(p)
}

type customPayload struct{}

func (p *customPayload) Validate() error {
	return CustomValidationErrors{
		{Field: "title", Message: "Pick another title."},
		{Field: "title", Message: "Pick another title."},
	}
}

func newJSONContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok, "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestBindAndValidate_Valid(t *testing.T) {
	p := &samplePayload{}

	err := BindAndValidate(newJSONContext(`{"title":"ok","color":"red","link":"https://x.io"}`), p)

	require.NoError(t, err)
	assert.Equal(t, "ok", p.Title)
}

func TestBindAndValidate_CollectsEveryFieldError(t *testing.T) {
	err := BindAndValidate(newJSONContext(`{"title":"toolong","color":"green","link":"nope","count":9}`), &samplePayload{})

	httpErr := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.FieldErrors{
		"title": {"Ensure this field has no more than 5 characters."},
		"color": {`"green" is not a valid choice.`},
		"link":  {"Enter a valid URL."},
		"count": {"Ensure this value is less than or equal to 3."},
	}, httpErr.Fields)
}

func TestBindAndValidate_EmptyBodyIsRequired(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	httpErr := requireHTTPError(t, BindAndValidate(c, &samplePayload{}))

	assert.Equal(t, []string{"This field is required."}, httpErr.Fields["title"])
}

func TestBindAndValidate_FormBody(t *testing.T) {
	form := url.Values{"title": {"form"}, "color": {"blue"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	p := &samplePayload{}
	require.NoError(t, BindAndValidate(c, p))
	assert.Equal(t, "form", p.Title)
	assert.Equal(t, "blue", p.Color)
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newJSONContext(`{"title":`), &samplePayload{}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "BAD_REQUEST", httpErr.Code)
	assert.False(t, httpErr.HasFieldErrors())
}

func TestBindAndValidate_WrongJSONType(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newJSONContext(`{"title":12}`), &samplePayload{}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, errs.FieldErrors{"title": {MsgNotAString}}, httpErr.Fields)
}

func TestTypeMessage(t *testing.T) {
	var s *string

	assert.Equal(t, MsgNotAString, typeMessage(reflect.TypeOf(s)))
	assert.Equal(t, MsgNotANumber, typeMessage(reflect.TypeOf(int64(0))))
	assert.Equal(t, MsgNotABoolean, typeMessage(reflect.TypeOf(true)))
	assert.Equal(t, MsgInvalid, typeMessage(reflect.TypeOf([]string{})))
	assert.Equal(t, MsgInvalid, typeMessage(nil))
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newJSONContext(`{}`), &customPayload{}))

	assert.Equal(t, errs.FieldErrors{"title": {"Pick another title."}}, httpErr.Fields)
}

func TestValidator_UsesJSONNames(t *testing.T) {
	err := Struct(&samplePayload{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "title", verrs[0].Field())
}
