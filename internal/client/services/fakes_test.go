package services

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/client/session"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	SendErr error

	VerifyRet json.RawMessage
	VerifyErr error

	VerifyTokenRet json.RawMessage
	VerifyTokenErr error

	PublicCats []models.Category
	Cats       []models.Category
	CatsErr    error
	CatOut     models.Category
	CatErr     error

	Comments    []models.Comment
	CommentsErr error
	CommentOut  models.Comment
	CommentErr  error

	Edition    *models.Edition
	EditionErr error

	PingErr error

	// call tracking
	Calls         int
	LastEmail     string
	LastOTP       string
	LastCategory  models.Category
	LastDeletedID string
	LastNewsID    string
	LastContent   string
	LastDate      string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) SendEmailOTP(_ context.Context, email string) error {
	f.Calls++
	f.LastEmail = email
	return f.SendErr
}

func (f *fakeClient) VerifyEmailOTP(_ context.Context, email, otp string) (json.RawMessage, error) {
	f.Calls++
	f.LastEmail, f.LastOTP = email, otp
	return f.VerifyRet, f.VerifyErr
}

func (f *fakeClient) VerifyToken(context.Context) (json.RawMessage, error) {
	f.Calls++
	return f.VerifyTokenRet, f.VerifyTokenErr
}

func (f *fakeClient) ListPublicCategories(context.Context) ([]models.Category, error) {
	f.Calls++
	return f.PublicCats, f.CatsErr
}

func (f *fakeClient) ListCategories(context.Context) ([]models.Category, error) {
	f.Calls++
	return f.Cats, f.CatsErr
}

func (f *fakeClient) CreateCategory(_ context.Context, c models.Category) (models.Category, error) {
	f.Calls++
	f.LastCategory = c
	return f.CatOut, f.CatErr
}

func (f *fakeClient) UpdateCategory(_ context.Context, c models.Category) (models.Category, error) {
	f.Calls++
	f.LastCategory = c
	return f.CatOut, f.CatErr
}

func (f *fakeClient) DeleteCategory(_ context.Context, id string) error {
	f.Calls++
	f.LastDeletedID = id
	return f.CatErr
}

func (f *fakeClient) ListComments(context.Context) ([]models.Comment, error) {
	f.Calls++
	return f.Comments, f.CommentsErr
}

func (f *fakeClient) CreateComment(_ context.Context, newsID, content string) (models.Comment, error) {
	f.Calls++
	f.LastNewsID, f.LastContent = newsID, content
	return f.CommentOut, f.CommentErr
}

func (f *fakeClient) GetEdition(_ context.Context, date string) (*models.Edition, error) {
	f.Calls++
	f.LastDate = date
	return f.Edition, f.EditionErr
}

func (f *fakeClient) Ping(context.Context) error {
	f.Calls++
	return f.PingErr
}

func newStore() *session.Store {
	return session.NewStore(logging.Discard(),
		session.NewMemoryBackend(session.KindDurable),
		session.NewMemoryBackend(session.KindTransient),
	)
}

func loggedInAs(role models.Role) *session.Store {
	s := newStore()
	_ = s.SaveSession(context.Background(), "tok", "", models.User{Name: "Tester", Role: role})
	return s
}

type prefixResolver string

func (p prefixResolver) Resolve(_ context.Context, ref string) string { return string(p) + ref }
