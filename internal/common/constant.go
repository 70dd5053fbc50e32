// Package common contains shared constants and sentinel errors used across
// the client and the development upstream.
package common

// HTTP header names exchanged with the upstream API.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Storage keys for the persisted session. The user record is also mirrored
// into a cookie with the same name as its storage key.
const (
	StorageKeyAuthToken    = "authToken"
	StorageKeyRefreshToken = "refreshToken"
	StorageKeyUserData     = "userData"
)

// GenericErrorMessage is shown when the upstream gives no description.
const GenericErrorMessage = "Something went wrong. Please try again."
