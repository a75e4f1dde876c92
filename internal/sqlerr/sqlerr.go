// Package sqlerr classifies database driver errors.
//
// Both drivers used by the service (pgx for PostgreSQL, modernc for SQLite)
// report constraint failures in their own format. This package normalizes them
// into *Error so repositories and the HTTP error handler can switch on a Code
// instead of on SQLSTATEs or SQLite extended result codes.
package sqlerr
