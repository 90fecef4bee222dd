package server

import "errors"

var (
	// ErrServerAlreadyRunning indicates Start was called on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")
)
