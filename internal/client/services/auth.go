package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/identity"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/client/session"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	otpCodePattern = regexp.MustCompile(`^[0-9]{4,8}$`)
)

// AuthService defines the one-time-code login flow and session housekeeping.
//
// Contract:
//   - SendOTP: ask the upstream to email a one-time code.
//   - VerifyOTP: exchange the code for a session and persist it.
//   - VerifyToken: re-validate the stored token and refresh the user record;
//     a rejected token clears the session.
//   - CurrentUser: the stored session, without a network call.
//   - Logout: clear every stored session key.
//   - PendingEmail: the address the last code was sent to in this run.
//   - Ping: check upstream liveness.
type AuthService interface {
	SendOTP(ctx context.Context, email string) Result[struct{}]
	VerifyOTP(ctx context.Context, email, code string) Result[*models.Session]
	VerifyToken(ctx context.Context) Result[*models.Session]
	CurrentUser(ctx context.Context) Result[*models.Session]
	Logout(ctx context.Context) Result[struct{}]
	PendingEmail(ctx context.Context) string
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	store  SessionStore
	log    logging.Logger
}

func NewAuthService(c client.Client, store SessionStore, log logging.Logger) AuthService {
	return &authService{client: c, store: store, log: log}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", invalid("Please enter a valid email address")
	}
	return email, nil
}

func (a *authService) SendOTP(ctx context.Context, email string) Result[struct{}] {
	email, err := normalizeEmail(email)
	if err != nil {
		return fail[struct{}](err)
	}

	if err := a.client.SendEmailOTP(ctx, email); err != nil {
		a.log.Warn(ctx, "send otp failed", "error", err)
		return fail[struct{}](err)
	}

	if err := a.store.SetTransient(ctx, session.KeyPendingEmail, email); err != nil {
		a.log.Warn(ctx, "failed to remember pending email", "error", err)
	}
	return ok(struct{}{})
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) Result[*models.Session] {
	email, err := normalizeEmail(email)
	if err != nil {
		return fail[*models.Session](err)
	}
	code = strings.TrimSpace(code)
	if !otpCodePattern.MatchString(code) {
		return fail[*models.Session](invalid("Please enter the numeric code from your email"))
	}

	raw, err := a.client.VerifyEmailOTP(ctx, email, code)
	if err != nil {
		a.log.Warn(ctx, "verify otp failed", "error", err)
		return fail[*models.Session](err)
	}

	p, err := identity.DecodeAuthPayload(raw)
	if err != nil {
		a.log.Warn(ctx, "unrecognised verify response", "error", err)
		return fail[*models.Session](err)
	}

	sess := identity.Normalize(p)
	if sess.Token == "" {
		a.log.Warn(ctx, "verify response carried no token")
	}
	fillEmail(&sess, email)

	if err := a.store.SaveSession(ctx, sess.Token, sess.RefreshToken, sess.User); err != nil {
		a.log.Error(ctx, "failed to save session", "error", err)
		return fail[*models.Session](err)
	}

	// Re-read so the caller sees exactly what was stored.
	stored, err := a.store.LoadSession(ctx)
	if err != nil || stored == nil {
		return ok(&sess)
	}
	return ok(stored)
}

func (a *authService) VerifyToken(ctx context.Context) Result[*models.Session] {
	current, err := a.store.LoadSession(ctx)
	if err != nil {
		return fail[*models.Session](err)
	}
	if current == nil || current.Token == "" {
		return fail[*models.Session](session.ErrNotLoggedIn)
	}

	raw, err := a.client.VerifyToken(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		a.log.Info(ctx, "stored token rejected, clearing session")
		if cerr := a.store.ClearSession(ctx); cerr != nil {
			a.log.Warn(ctx, "failed to clear session", "error", cerr)
		}
		return fail[*models.Session](errSessionExpired)
	}
	if err != nil {
		return fail[*models.Session](err)
	}

	p, err := identity.DecodeAuthPayload(raw)
	if err != nil {
		a.log.Warn(ctx, "unrecognised verify-token response", "error", err)
		return fail[*models.Session](err)
	}

	fresh := identity.Normalize(p)
	if fresh.Token == "" {
		fresh.Token = current.Token
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = current.RefreshToken
	}
	fillEmail(&fresh, current.Email)
	if fresh.Name == models.DefaultUserName && current.Name != "" {
		fresh.Name = current.Name
	}

	if err := a.store.SaveSession(ctx, fresh.Token, fresh.RefreshToken, fresh.User); err != nil {
		a.log.Error(ctx, "failed to save session", "error", err)
		return fail[*models.Session](err)
	}
	return ok(&fresh)
}

func (a *authService) CurrentUser(ctx context.Context) Result[*models.Session] {
	sess, err := a.store.LoadSession(ctx)
	if err != nil {
		return fail[*models.Session](err)
	}
	if sess == nil {
		return fail[*models.Session](session.ErrNotLoggedIn)
	}
	return ok(sess)
}

func (a *authService) Logout(ctx context.Context) Result[struct{}] {
	if err := a.store.ClearSession(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
		return fail[struct{}](err)
	}
	return ok(struct{}{})
}

func (a *authService) PendingEmail(ctx context.Context) string {
	return a.store.Transient(ctx, session.KeyPendingEmail)
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// fillEmail sets the email when the upstream omitted it and re-derives a
// placeholder name from it.
func fillEmail(s *models.Session, email string) {
	if s.Email != "" || email == "" {
		return
	}
	s.Email = email
	if s.Name == models.DefaultUserName {
		if name := identity.NameFromEmail(email); name != "" {
			s.Name = name
		}
	}
}
