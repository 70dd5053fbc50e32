package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/common"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

// DefaultTimeout bounds every request when Options.Timeout is zero.
const DefaultTimeout = 20 * time.Second

const maxBodySize = 4 << 20

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Tokens    TokenSource
	Logger    logging.Logger

	// OnUnauthorized is called after any 401 response.
	OnUnauthorized func(ctx context.Context)

	// HTTPClient overrides the default client; its Timeout is replaced.
	HTTPClient *http.Client
}

type RESTClient struct {
	baseURL        *url.URL
	hc             *http.Client
	userAgent      string
	tokens         TokenSource
	log            logging.Logger
	onUnauthorized func(ctx context.Context)
}

var _ Client = (*RESTClient)(nil)

func NewRESTClient(opt Options) (*RESTClient, error) {
	if opt.BaseURL == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(opt.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opt.BaseURL)
	}

	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := &http.Client{}
	if opt.HTTPClient != nil {
		c := *opt.HTTPClient
		hc = &c
	}
	hc.Timeout = timeout

	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &RESTClient{
		baseURL:        u,
		hc:             hc,
		userAgent:      opt.UserAgent,
		tokens:         opt.Tokens,
		log:            log,
		onUnauthorized: opt.OnUnauthorized,
	}, nil
}

// BaseURL returns the configured API root.
func (c *RESTClient) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// envelope is the upstream response wrapper. Bodies without it are
// treated as bare data.
type envelope struct {
	Success     *bool           `json:"success"`
	ErrorCode   string          `json:"errorCode"`
	Data        json.RawMessage `json:"data"`
	Description string          `json:"description"`
	Message     string          `json:"message"`
}

func (e *envelope) description() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Message
}

func (c *RESTClient) SendEmailOTP(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	_, err := c.do(ctx, http.MethodPost, "/user/send-email-otp", nil, req)
	return err
}

func (c *RESTClient) VerifyEmailOTP(ctx context.Context, email, otp string) (json.RawMessage, error) {
	req := map[string]string{"email": email, "otp": otp}
	return c.do(ctx, http.MethodPost, "/user/verify-email-otp", nil, req)
}

func (c *RESTClient) VerifyToken(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/user/verify-token", nil, nil)
}

func (c *RESTClient) ListPublicCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.doJSON(ctx, http.MethodGet, "/news/category", nil, nil, &out)
	return out, err
}

func (c *RESTClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := c.doJSON(ctx, http.MethodGet, "/backoffice/category", nil, nil, &out)
	return out, err
}

func (c *RESTClient) CreateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.doJSON(ctx, http.MethodPost, "/backoffice/category", nil, cat, &out)
	return out, err
}

func (c *RESTClient) UpdateCategory(ctx context.Context, cat models.Category) (models.Category, error) {
	var out models.Category
	err := c.doJSON(ctx, http.MethodPost, "/backoffice/category/update", nil, cat, &out)
	return out, err
}

func (c *RESTClient) DeleteCategory(ctx context.Context, id string) error {
	req := map[string]string{"id": id}
	return c.doJSON(ctx, http.MethodPost, "/backoffice/category/delete", nil, req, nil)
}

func (c *RESTClient) ListComments(ctx context.Context) ([]models.Comment, error) {
	var out []models.Comment
	err := c.doJSON(ctx, http.MethodGet, "/news/news/comment", nil, nil, &out)
	return out, err
}

func (c *RESTClient) CreateComment(ctx context.Context, newsID, content string) (models.Comment, error) {
	var req struct {
		NewsID  string `json:"news_id"`
		Content string `json:"content"`
	}
	req.NewsID = newsID
	req.Content = content

	var out models.Comment
	err := c.doJSON(ctx, http.MethodPost, "/news/news/comment", nil, req, &out)
	return out, err
}

func (c *RESTClient) GetEdition(ctx context.Context, date string) (*models.Edition, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out models.Edition
	if err := c.doJSON(ctx, http.MethodGet, "/epaper/edition", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) Ping(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.Status, "OK") {
		return ErrUnavailable
	}
	return nil
}

// doJSON performs the request and decodes the envelope's data (or the bare
// body) into out.
func (c *RESTClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	data := unwrapData(raw)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// do sends the request and returns the raw 2xx body after checking the
// envelope's success flag.
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(b)
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	c.attachToken(ctx, req)

	log := c.log.With("method", method, "path", path, "request_id", requestID)

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn(ctx, "reading response failed", "error", err)
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "bytes", len(raw))

	if err := c.mapError(ctx, resp.StatusCode, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *RESTClient) attachToken(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn(ctx, "token lookup failed", "error", err)
		return
	}
	if token == "" {
		return
	}
	if TokenExpired(token) {
		c.log.Debug(ctx, "stored token expired, sending request anonymously")
		return
	}
	req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
}

// mapError turns a response into nil or an error. 401/403 match
// ErrUnauthorized and 5xx match ErrUnavailable.
func (c *RESTClient) mapError(ctx context.Context, status int, raw []byte) error {
	var env envelope
	_ = json.Unmarshal(raw, &env)

	if status < 200 || status >= 300 {
		if status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return &APIError{Status: status, Code: env.ErrorCode, Description: env.description()}
	}

	if env.Success != nil && !*env.Success {
		return &APIError{Status: status, Code: env.ErrorCode, Description: env.description()}
	}
	return nil
}

// unwrapData returns the envelope's data field when the body is an
// envelope, and the body itself otherwise.
func unwrapData(raw []byte) json.RawMessage {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return raw
	}
	if env.Success == nil && len(env.Data) == 0 {
		return raw
	}
	return env.Data
}
