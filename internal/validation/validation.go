// Package validation binds request bodies and turns validator failures into
// the field-keyed error map clients receive.
//
// Request types carry `validate:"..."` tags and implement Validatable,
// usually by calling Struct on themselves. Field names in errors come from
// the json tag so they match what the client sent.
package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validatable is implemented by request payloads.
type Validatable interface {
	Validate() error
}

var (
	instance     *validator.Validate
	instanceOnce sync.Once
	registerMu   sync.Mutex
)

// Validator returns the shared validator, configured to report json field
// names.
func Validator() *validator.Validate {
	instanceOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		instance = v
	})
	return instance
}

// RegisterValidation adds a custom tag to the shared validator.
func RegisterValidation(tag string, fn validator.Func) error {
	registerMu.Lock()
	defer registerMu.Unlock()

	return Validator().RegisterValidation(tag, fn)
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(fld.Name)
	default:
		return name
	}
}
