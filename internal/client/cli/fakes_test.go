package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/client/config"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/client/services"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

type fakeAuth struct {
	pending string

	sendRes   services.Result[struct{}]
	verifyRes services.Result[*models.Session]
	tokenRes  services.Result[*models.Session]
	current   services.Result[*models.Session]
	logoutRes services.Result[struct{}]
	pingErr   error

	sentTo    []string
	verified  []string
	loggedOut bool
}

func (f *fakeAuth) SendOTP(_ context.Context, email string) services.Result[struct{}] {
	f.sentTo = append(f.sentTo, email)
	return f.sendRes
}

func (f *fakeAuth) VerifyOTP(_ context.Context, email, code string) services.Result[*models.Session] {
	f.verified = append(f.verified, email+":"+code)
	return f.verifyRes
}

func (f *fakeAuth) VerifyToken(context.Context) services.Result[*models.Session] { return f.tokenRes }

func (f *fakeAuth) CurrentUser(context.Context) services.Result[*models.Session] { return f.current }

func (f *fakeAuth) Logout(context.Context) services.Result[struct{}] {
	f.loggedOut = true
	return f.logoutRes
}

func (f *fakeAuth) PendingEmail(context.Context) string { return f.pending }

func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

type fakeCategories struct {
	public  services.Result[[]models.Category]
	all     services.Result[[]models.Category]
	saveRes services.Result[models.Category]
	delRes  services.Result[struct{}]

	created []models.Category
	updated []models.Category
	deleted []string
}

func (f *fakeCategories) ListPublic(context.Context) services.Result[[]models.Category] {
	return f.public
}

func (f *fakeCategories) List(context.Context) services.Result[[]models.Category] { return f.all }

func (f *fakeCategories) Create(_ context.Context, c models.Category) services.Result[models.Category] {
	f.created = append(f.created, c)
	return f.saveRes
}

func (f *fakeCategories) Update(_ context.Context, c models.Category) services.Result[models.Category] {
	f.updated = append(f.updated, c)
	return f.saveRes
}

func (f *fakeCategories) Delete(_ context.Context, id string) services.Result[struct{}] {
	f.deleted = append(f.deleted, id)
	return f.delRes
}

type fakeComments struct {
	listRes   services.Result[[]models.Comment]
	createRes services.Result[models.Comment]

	listedFor []string
	posted    []string
}

func (f *fakeComments) List(_ context.Context, newsID string) services.Result[[]models.Comment] {
	f.listedFor = append(f.listedFor, newsID)
	return f.listRes
}

func (f *fakeComments) Create(_ context.Context, newsID, content string) services.Result[models.Comment] {
	f.posted = append(f.posted, newsID+":"+content)
	return f.createRes
}

type fakeEditions struct {
	res   services.Result[*models.Edition]
	dates []string
}

func (f *fakeEditions) Load(_ context.Context, date string) services.Result[*models.Edition] {
	f.dates = append(f.dates, date)
	return f.res
}

var errBoom = errors.New("boom")

func failed[T any](msg string) services.Result[T] {
	return services.Result[T]{Error: msg}
}

func succeeded[T any](v T) services.Result[T] {
	return services.Result[T]{Success: true, Data: v}
}

// newTestApp builds an App around fakes, reading input and writing to out.
func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()

	out := &bytes.Buffer{}
	return &App{
		config:          cfg,
		log:             logging.Discard(),
		authService:     &fakeAuth{},
		categoryService: &fakeCategories{},
		commentService:  &fakeComments{},
		editionService:  &fakeEditions{},
		httpClient:      &http.Client{Timeout: time.Second},
		reader:          rdr(input),
		out:             out,
	}, out
}

func admin() *models.Session {
	return &models.Session{User: models.User{Name: "Ann", Email: "ann@x.com", Role: models.RoleAdmin}, Token: "t"}
}

func endUser() *models.Session {
	return &models.Session{User: models.User{Name: "Bob", Email: "bob@x.com", Role: models.RoleEndUser}, Token: "t"}
}
