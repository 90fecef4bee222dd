package dispatch

import "errors"

var (
	// ErrNoRoute is returned when no handler is registered for a route.
	ErrNoRoute = errors.New("no handler registered for route")
	// ErrUnsupportedOperation is returned when a route's handler lacks the
	// capability the request state requires.
	ErrUnsupportedOperation = errors.New("operation not supported by handler")
	// ErrCSRF is returned when a write request carries a missing or wrong
	// CSRF token.
	ErrCSRF = errors.New("csrf token mismatch")
)
