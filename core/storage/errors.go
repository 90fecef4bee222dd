package storage

import "errors"

var (
	// ErrRecordNotFound indicates the requested record does not exist.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidEntity indicates the entity name cannot map to a table.
	ErrInvalidEntity = errors.New("invalid entity name")
)
