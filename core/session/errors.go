package session

import "errors"

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when a session has exceeded its idle timeout.
	ErrExpired = errors.New("session has expired")
	// ErrTokenGeneration is returned when session token generation fails.
	ErrTokenGeneration = errors.New("failed to generate session token")
	// ErrArchive is returned when persisting or loading the session archive fails.
	ErrArchive = errors.New("session archive failure")
)
