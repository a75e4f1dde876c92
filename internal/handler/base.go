package handler

import (
	"errors"
	"reflect"
	"time"

	"github.com/deppfellow/company-tracker/internal/errs"
	"github.com/deppfellow/company-tracker/internal/middleware"
	"github.com/deppfellow/company-tracker/internal/server"
	"github.com/deppfellow/company-tracker/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// Handler holds the shared application dependencies. Concrete handlers embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound and validated Req and
// returns the response body or an error. Req must be a pointer type.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// FieldCheck reports extra field failures for a request that already failed
// validation, so the client sees them in the same response. Checks never run
// on a body that could not be bound.
type FieldCheck[Req validation.Validatable] func(c echo.Context, req Req) (errs.FieldErrors, error)

// ResponseHandler writes a successful result and tags the transaction for it.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes result as JSON with a fixed status.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if result == nil {
		return
	}
	// http.status_code is set by EnhanceTracing
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		txn.AddAttribute("response.items", v.Len())
	}
}

// newRequest returns a fresh zero value of the type req points to, so
// concurrent requests never share a payload.
func newRequest[Req validation.Validatable](req Req) Req {
	t := reflect.TypeOf(req)
	if t == nil || t.Kind() != reflect.Pointer {
		return req
	}
	return reflect.New(t.Elem()).Interface().(Req)
}

// handleRequest is the pipeline every typed endpoint runs through: bind and
// validate, call the handler, log and trace both phases, write the response.
// Errors are returned untouched for the global error handler.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
	checks ...FieldCheck[Req],
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		err = runFieldChecks(c, req, err, checks)
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// runFieldChecks merges the failures reported by checks into a field
// validation error. A check that fails is logged and skipped.
func runFieldChecks[Req validation.Validatable](c echo.Context, req Req, err error, checks []FieldCheck[Req]) error {
	var httpErr *errs.HTTPError
	if len(checks) == 0 || !errors.As(err, &httpErr) || !httpErr.HasFieldErrors() {
		return err
	}

	merged := errs.FieldErrors{}
	for field, messages := range httpErr.Fields {
		for _, msg := range messages {
			merged.Add(field, msg)
		}
	}

	for _, check := range checks {
		extra, checkErr := check(c, req)
		if checkErr != nil {
			middleware.GetLogger(c).Warn().Err(checkErr).Msg("field check failed")
			continue
		}
		for field, messages := range extra {
			for _, msg := range messages {
				merged.Add(field, msg)
			}
		}
	}

	return errs.NewFieldValidationError(merged)
}

// Handle adapts a typed endpoint into an echo.HandlerFunc that answers with
// status on success. req is only used as a type template. checks run only
// when validation fails.
//
//	router.POST("/companies", handler.Handle(h, h.CreateCompany, http.StatusCreated, &model.CreateCompanyPayload{}, h.CheckCreateCompany))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
	checks ...FieldCheck[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status}, checks...)
	}
}
