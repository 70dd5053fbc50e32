package services

import (
	"context"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

// SessionStore is the part of session.Store the services use.
type SessionStore interface {
	SaveSession(ctx context.Context, token, refreshToken string, user models.User) error
	LoadSession(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error
	RequireRole(ctx context.Context, roles ...models.Role) (*models.Session, error)
	SetTransient(ctx context.Context, key, value string) error
	Transient(ctx context.Context, key string) string
}
