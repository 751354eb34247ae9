package sessions

import "errors"

var (
	// ErrUnauthenticated is the uniform failure returned to callers for any
	// invalid token: malformed, expired or revoked. The distinction is only
	// surfaced to internal logging.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrSessionNotFound = errors.New("session not found")
)
