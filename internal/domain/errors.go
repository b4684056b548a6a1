package domain

import "errors"

// Domain errors represent error conditions in the bulk domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrTerminated is returned when a command arrives after the terminate signal.
	ErrTerminated = errors.New("bulk: pipeline terminated")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("bulk: invalid configuration")

	// ErrUnknownSink is returned when the sink chain names a sink nobody registered.
	ErrUnknownSink = errors.New("bulk: unknown sink")
)
