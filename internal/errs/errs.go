// Package errs defines the error values handlers hand to the global error handler.
//
// Two shapes reach clients:
//   - HTTPError, a {code, message, status, ...} envelope for generic failures.
//   - FieldErrors, a field -> messages map used for request validation, written
//     as the whole response body so clients can show messages next to inputs.
package errs
