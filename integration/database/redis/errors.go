package redis

import "errors"

var (
	// ErrEmptyConnectionURL indicates no Redis URL was provided.
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")

	// ErrFailedToParseConnString indicates the Redis URL could not be parsed.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")

	// ErrNotReady indicates Redis did not answer a ping within the retry budget.
	ErrNotReady = errors.New("redis did not become ready within the given time period")
)
