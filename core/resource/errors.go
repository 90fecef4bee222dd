package resource

import (
	"errors"
	"fmt"
)

// ErrNotFound wraps all resolution misses; use errors.Is against it and
// errors.As with *NotFoundError to get the path.
var ErrNotFound = errors.New("resource not found")

// NotFoundError reports a resource that could not be resolved in any
// language variant. Path is the original logical path as requested,
// placeholder included.
type NotFoundError struct {
	Path string
	Lang string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s (lang %q)", e.Path, e.Lang)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
