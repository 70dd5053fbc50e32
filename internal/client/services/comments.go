package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

type CommentService interface {
	List(ctx context.Context, newsID string) Result[[]models.Comment]
	Create(ctx context.Context, newsID, content string) Result[models.Comment]
}

type commentService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger
}

func NewCommentService(c client.Client, store SessionStore, log logging.Logger) CommentService {
	return &commentService{client: c, store: store, log: log}
}

// List returns the comments for one article. The upstream endpoint returns
// every comment, so the list is filtered here. A 401 yields an empty list.
func (s *commentService) List(ctx context.Context, newsID string) Result[[]models.Comment] {
	newsID = strings.TrimSpace(newsID)
	if newsID == "" {
		return fail[[]models.Comment](invalid("Article id is required"))
	}

	all, err := s.client.ListComments(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		return ok([]models.Comment{})
	}
	if err != nil {
		return fail[[]models.Comment](err)
	}

	out := make([]models.Comment, 0, len(all))
	for _, c := range all {
		if c.NewsID == newsID {
			out = append(out, c)
		}
	}
	return ok(out)
}

func (s *commentService) Create(ctx context.Context, newsID, content string) Result[models.Comment] {
	newsID = strings.TrimSpace(newsID)
	content = strings.TrimSpace(content)
	if newsID == "" {
		return fail[models.Comment](invalid("Article id is required"))
	}
	if content == "" {
		return fail[models.Comment](invalid("Comment cannot be empty"))
	}

	sess, err := s.store.LoadSession(ctx)
	if err != nil || sess == nil || sess.Token == "" {
		return fail[models.Comment](ErrLoginRequired)
	}

	out, err := s.client.CreateComment(ctx, newsID, content)
	if errors.Is(err, client.ErrUnauthorized) {
		return fail[models.Comment](ErrLoginRequired)
	}
	if err != nil {
		s.log.Warn(ctx, "create comment failed", "news_id", newsID, "error", err)
		return fail[models.Comment](err)
	}
	return ok(out)
}
