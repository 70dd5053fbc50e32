package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

// Client is the upstream API. Authentication endpoints return the raw
// response body because its shape varies; callers decode it with the
// identity package.
type Client interface {
	SendEmailOTP(ctx context.Context, email string) error
	VerifyEmailOTP(ctx context.Context, email, otp string) (json.RawMessage, error)
	VerifyToken(ctx context.Context) (json.RawMessage, error)

	ListPublicCategories(ctx context.Context) ([]models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListComments(ctx context.Context) ([]models.Comment, error)
	CreateComment(ctx context.Context, newsID, content string) (models.Comment, error)

	GetEdition(ctx context.Context, date string) (*models.Edition, error)

	Ping(ctx context.Context) error
}

// TokenSource supplies the bearer token for outgoing requests.
// An empty token means the request is sent anonymously.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
