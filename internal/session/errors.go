package session

import "errors"

var (
	// ErrSessionNotFound is returned by registry lookups against unknown ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidState is returned when operating on an already-ended session.
	ErrInvalidState = errors.New("invalid session state")
)
