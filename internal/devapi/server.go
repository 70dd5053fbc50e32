package devapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/newsclient/internal/common"
	"github.com/dmitrijs2005/newsclient/internal/devapi/auth"
	"github.com/dmitrijs2005/newsclient/internal/devapi/config"
	"github.com/dmitrijs2005/newsclient/internal/devapi/store"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

const (
	claimsKey       = "claims"
	shutdownTimeout = 5 * time.Second
)

// Server is the echo application.
type Server struct {
	e      *echo.Echo
	cfg    *config.Config
	log    logging.Logger
	store  *store.Store
	otp    *auth.OTPStore
	secret []byte
	shapes atomic.Uint64
}

func NewServer(cfg *config.Config, log logging.Logger, st *store.Store, otp *auth.OTPStore) *Server {
	s := &Server{
		e:      echo.New(),
		cfg:    cfg,
		log:    log,
		store:  st,
		otp:    otp,
		secret: []byte(cfg.SecretKey),
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	s.e.HTTPErrorHandler = s.errorHandler
	s.e.Use(middleware.Recover(), middleware.RequestID(), s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/health", s.health)
	s.e.Match([]string{http.MethodGet, http.MethodHead}, "/media/:date/:file", s.media)

	user := s.e.Group("/user")
	user.POST("/send-email-otp", s.sendOTP)
	user.POST("/verify-email-otp", s.verifyOTP)
	user.GET("/verify-token", s.verifyToken, s.requireUser)

	news := s.e.Group("/news")
	news.GET("/category", s.publicCategories)
	news.GET("/news/comment", s.listComments, s.requireUser)
	news.POST("/news/comment", s.createComment, s.requireUser)

	back := s.e.Group("/backoffice", s.requireUser, s.requireRole(roleAdmin))
	back.GET("/category", s.listCategories)
	back.POST("/category", s.createCategory)
	back.POST("/category/update", s.updateCategory)
	back.POST("/category/delete", s.deleteCategory)

	s.e.GET("/epaper/edition", s.edition)
}

func (s *Server) Handler() http.Handler { return s.e }

// Run serves on the configured address until ctx is done, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening", "addr", s.cfg.ListenAddr)
		if err := s.e.Start(s.cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info(ctx, "shutting down")
	return s.e.Shutdown(shutdownCtx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		req := c.Request()
		s.log.Info(req.Context(), "request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", c.Response().Status,
			"duration", time.Since(start),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// requireUser checks the bearer token and stores its claims in the context.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(h, common.BearerPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := auth.ParseToken(strings.TrimPrefix(h, common.BearerPrefix), s.secret)
		if errors.Is(err, common.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}

func (s *Server) requireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok || !allowed[claims.Role] {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

type envelope struct {
	Success     bool   `json:"success"`
	ErrorCode   string `json:"errorCode,omitempty"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
	Data        any    `json:"data,omitempty"`
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	}
	return "INTERNAL"
}

// errorHandler writes every error as a failed envelope.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	msg := http.StatusText(status)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
	} else {
		s.log.Error(c.Request().Context(), "handler failed", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, envelope{Success: false, ErrorCode: errorCode(status), Description: msg})
}
