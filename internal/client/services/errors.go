package services

import (
	"errors"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/session"
	"github.com/dmitrijs2005/newsclient/internal/common"
)

var (
	// ErrValidation is matched by every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrLoginRequired is returned when an operation needs a signed-in user.
	ErrLoginRequired = errors.New("login required")
)

// ValidationError carries the message shown to the user.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

const (
	msgLoginRequired  = "Please login to comment"
	msgNotLoggedIn    = "Please login first"
	msgForbidden      = "You do not have permission to do that"
	msgSessionExpired = "Your session has expired. Please login again."
)

var errSessionExpired = errors.New("session expired")

// Message maps err to the text shown to the user: validation messages as
// written, the upstream description when there is one, and a generic
// message otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Msg
	case errors.Is(err, ErrLoginRequired):
		return msgLoginRequired
	case errors.Is(err, errSessionExpired):
		return msgSessionExpired
	case errors.Is(err, session.ErrNotLoggedIn):
		return msgNotLoggedIn
	case errors.Is(err, session.ErrForbidden):
		return msgForbidden
	}

	if desc := client.Description(err); desc != "" {
		return desc
	}
	if errors.Is(err, client.ErrForbidden) {
		return msgForbidden
	}
	return common.GenericErrorMessage
}
