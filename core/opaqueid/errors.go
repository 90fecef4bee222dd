package opaqueid

import "errors"

var (
	// ErrUnknownToken is returned when a token does not resolve to a record
	// id for the given entity type.
	ErrUnknownToken = errors.New("unknown opaque token")
	// ErrTokenGeneration is returned when random token generation fails.
	ErrTokenGeneration = errors.New("failed to generate opaque token")
	// ErrEmptyEntity is returned when an entity type is empty.
	ErrEmptyEntity = errors.New("entity type is required")
)
