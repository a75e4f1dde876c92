// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as request
// ids, request logging, CORS, rate limiting, metrics, tracing and panic
// recovery. The global error handler also lives here.
package middleware
