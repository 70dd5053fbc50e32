package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var timeNow = time.Now

// TokenExpired reports whether token is a JWT whose exp claim has passed.
// The signature is not checked. Opaque tokens are never considered expired.
func TokenExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(timeNow())
}
