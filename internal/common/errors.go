package common

import "errors"

var (
	// ErrInvalidToken is returned for malformed or badly signed bearer tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for well-formed tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)
