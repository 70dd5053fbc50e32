package session

import "errors"

var (
	// ErrNotFound is returned by backends for absent keys.
	ErrNotFound = errors.New("session key not found")

	// ErrNotLoggedIn is returned by RequireRole when no session is stored.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrForbidden is returned by RequireRole when the stored role is not allowed.
	ErrForbidden = errors.New("insufficient role")
)
