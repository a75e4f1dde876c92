// Package handler is the first layer after the router.
//
// It binds requests, validates them through the validation package, calls
// the service layer and writes the responses. Errors are left to the global
// error handler in the middleware package.
package handler
