package errs

import (
	"sort"
	"strings"
)

// FieldError is one message attached to one request field.
//
//	{ "field": "name", "error": "This field is required." }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// FieldErrors collects validation messages keyed by field name.
//
// It serializes to the body clients of the companies resource expect:
//
//	{ "name": ["This field is required."], "status": ["\"X\" is not a valid choice."] }
type FieldErrors map[string][]string

// Add appends a message for field, skipping exact duplicates.
func (f FieldErrors) Add(field, message string) {
	for _, existing := range f[field] {
		if existing == message {
			return
		}
	}
	f[field] = append(f[field], message)
}

// Fields returns the field names in sorted order.
func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

// List flattens the map into FieldError values, ordered by field name.
func (f FieldErrors) List() []FieldError {
	var list []FieldError
	for _, field := range f.Fields() {
		for _, msg := range f[field] {
			list = append(list, FieldError{Field: field, Error: msg})
		}
	}

	return list
}

// ActionType tells a client what to do next.
type ActionType string

const (
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional follow-up instruction for the client.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error type every handler returns to the global error handler.
//
// Fields is only set for request validation failures. When it is non-empty the
// error handler writes the field map itself as the response body instead of the
// envelope below.
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`
	Action *Action      `json:"action"`

	Fields FieldErrors `json:"-"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError, regardless of its code or status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of e carrying message.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
		Fields:   e.Fields,
	}
}

// HasFieldErrors reports whether the response body should be the field map.
func (e *HTTPError) HasFieldErrors() bool {
	return len(e.Fields) > 0
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
