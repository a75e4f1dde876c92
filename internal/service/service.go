// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// payloads from the handlers, applies the company rules, and calls the
// repository to read and write rows.
package service
