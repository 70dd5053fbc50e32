package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

type captured struct {
	method  string
	path    string
	query   string
	auth    string
	reqID   string
	ctype   string
	payload map[string]any
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.Path
		c.query = r.URL.RawQuery
		c.auth = r.Header.Get("Authorization")
		c.reqID = r.Header.Get("X-Request-ID")
		c.ctype = r.Header.Get("Content-Type")
		if b, _ := io.ReadAll(r.Body); len(b) > 0 {
			_ = json.Unmarshal(b, &c.payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newTestClient(t *testing.T, baseURL string, tokens TokenSource) *RESTClient {
	t.Helper()
	c, err := NewRESTClient(Options{BaseURL: baseURL, Timeout: 2 * time.Second, Tokens: tokens})
	require.NoError(t, err)
	return c
}

func TestNewRESTClient_Validation(t *testing.T) {
	_, err := NewRESTClient(Options{})
	require.Error(t, err)

	_, err = NewRESTClient(Options{BaseURL: "not a url"})
	require.Error(t, err)

	c, err := NewRESTClient(Options{BaseURL: "http://localhost:8080/api"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.hc.Timeout)
	assert.Equal(t, "/api", c.BaseURL().Path)
}

func TestSendEmailOTP_PostsEmail(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true}`)
	c := newTestClient(t, srv.URL, nil)

	require.NoError(t, c.SendEmailOTP(context.Background(), "a@b.com"))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/user/send-email-otp", got.path)
	assert.Equal(t, "application/json", got.ctype)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, got.payload)
	_, err := uuid.Parse(got.reqID)
	assert.NoError(t, err, "request id should be a uuid")
	assert.Empty(t, got.auth)
}

func TestVerifyEmailOTP_ReturnsRawBody(t *testing.T) {
	body := `{"success":true,"data":{"token":"t","user":{"email":"a@b.com"}}}`
	srv, got := newServer(t, http.StatusOK, body)
	c := newTestClient(t, srv.URL, nil)

	raw, err := c.VerifyEmailOTP(context.Background(), "a@b.com", "123456")
	require.NoError(t, err)
	assert.JSONEq(t, body, string(raw))
	assert.Equal(t, map[string]any{"email": "a@b.com", "otp": "123456"}, got.payload)
}

func TestBaseURLPathPrefixIsKept(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":[]}`)
	c := newTestClient(t, srv.URL+"/api/", nil)

	_, err := c.ListPublicCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/news/category", got.path)
}

func TestBearerTokenAttached(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":{"email":"a@b.com"}}`)
	c := newTestClient(t, srv.URL, staticTokens("opaque-token"))

	_, err := c.VerifyToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/user/verify-token", got.path)
	assert.Equal(t, "Bearer opaque-token", got.auth)
}

func TestExpiredJWTNotAttached(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	tok, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":[]}`)
	c := newTestClient(t, srv.URL, staticTokens(tok))

	_, err = c.ListComments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.auth)
}

func TestListCategories_DecodesEnvelopeAndBareBodies(t *testing.T) {
	want := []models.Category{
		{ID: "1", Name: "Sports", Slug: "sports", Active: true},
		{ID: "2", Name: "World", Slug: "world"},
	}

	for _, body := range []string{
		`{"success":true,"data":[{"id":"1","name":"Sports","slug":"sports","status":true},{"id":"2","name":"World","slug":"world","status":false}]}`,
		`[{"id":"1","name":"Sports","slug":"sports","status":true},{"id":"2","name":"World","slug":"world","status":false}]`,
	} {
		srv, got := newServer(t, http.StatusOK, body)
		c := newTestClient(t, srv.URL, staticTokens("tok"))

		cats, err := c.ListCategories(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/backoffice/category", got.path)
		if diff := cmp.Diff(want, cats); diff != "" {
			t.Errorf("categories mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCategoryMutations(t *testing.T) {
	ctx := context.Background()

	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":{"id":"9","name":"Tech","slug":"tech","status":true}}`)
	c := newTestClient(t, srv.URL, staticTokens("tok"))

	out, err := c.CreateCategory(ctx, models.Category{Name: "Tech", Slug: "tech", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "9", out.ID)
	assert.Equal(t, "/backoffice/category", got.path)
	assert.Equal(t, http.MethodPost, got.method)

	_, err = c.UpdateCategory(ctx, models.Category{ID: "9", Name: "Tech", Slug: "tech"})
	require.NoError(t, err)
	assert.Equal(t, "/backoffice/category/update", got.path)
	assert.Equal(t, "9", got.payload["id"])

	require.NoError(t, c.DeleteCategory(ctx, "9"))
	assert.Equal(t, "/backoffice/category/delete", got.path)
	assert.Equal(t, map[string]any{"id": "9"}, got.payload)
}

func TestCreateComment_Payload(t *testing.T) {
	srv, got := newServer(t, http.StatusCreated, `{"success":true,"data":{"id":"c1","news_id":"n1","content":"hi"}}`)
	c := newTestClient(t, srv.URL, staticTokens("tok"))

	out, err := c.CreateComment(context.Background(), "n1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "c1", out.ID)
	assert.Equal(t, "/news/news/comment", got.path)
	assert.Equal(t, map[string]any{"news_id": "n1", "content": "hi"}, got.payload)
}

func TestGetEdition_SendsDate(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":{"date":"2026-10-19","pages":[{"pageNumber":1,"fullImage":"p1.jpg"}]}}`)
	c := newTestClient(t, srv.URL, nil)

	ed, err := c.GetEdition(context.Background(), "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, "/epaper/edition", got.path)
	assert.Equal(t, "date=2026-10-19", got.query)
	require.Len(t, ed.Pages, 1)
	assert.Equal(t, "p1.jpg", ed.Pages[0].FullImage)
}

func TestPing(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"status":"OK"}`)
	require.NoError(t, newTestClient(t, srv.URL, nil).Ping(context.Background()))

	srv, _ = newServer(t, http.StatusOK, `{"status":"DEGRADED"}`)
	require.ErrorIs(t, newTestClient(t, srv.URL, nil).Ping(context.Background()), ErrUnavailable)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		desc     string
		code     string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"description":"token expired"}`, ErrUnauthorized, "token expired", ""},
		{"forbidden", http.StatusForbidden, ``, ErrForbidden, "", ""},
		{"server error", http.StatusBadGateway, `{"description":"upstream down"}`, ErrUnavailable, "upstream down", ""},
		{"bad request", http.StatusBadRequest, `{"success":false,"errorCode":"E_SLUG","description":"slug taken"}`, nil, "slug taken", "E_SLUG"},
		{"success false on 200", http.StatusOK, `{"success":false,"message":"invalid otp"}`, nil, "invalid otp", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			c := newTestClient(t, srv.URL, nil)

			err := c.SendEmailOTP(context.Background(), "a@b.com")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.desc, Description(err))

			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
				for _, other := range []error{ErrUnauthorized, ErrForbidden, ErrUnavailable} {
					if other != tt.sentinel {
						assert.NotErrorIs(t, err, other)
					}
				}
			} else {
				assert.False(t, errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrUnavailable))
			}
		})
	}
}

func TestTransportErrorIsUnavailable(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, nil)
	err := c.SendEmailOTP(context.Background(), "a@b.com")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestTimeoutIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c, err := NewRESTClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	err = c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestOnUnauthorizedHook(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{}`)

	calls := 0
	c, err := NewRESTClient(Options{
		BaseURL:        srv.URL,
		OnUnauthorized: func(context.Context) { calls++ },
	})
	require.NoError(t, err)

	_, err = c.VerifyToken(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)
}
