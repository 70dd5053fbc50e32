package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/newsclient/internal/client/identity"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/common"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

// KeyPendingEmail holds the address a one-time code was last sent to.
// It lives in transient storage only.
const KeyPendingEmail = "pendingEmail"

var sessionKeys = []string{
	common.StorageKeyAuthToken,
	common.StorageKeyRefreshToken,
	common.StorageKeyUserData,
}

// Store is the session facade used by services. It holds no in-memory copy
// of the session: every read goes back to the backends.
type Store struct {
	backends []Backend
	log      logging.Logger
}

func NewStore(log logging.Logger, backends ...Backend) *Store {
	return &Store{backends: backends, log: log}
}

// SaveSession persists tokens and the user record. Empty tokens are not
// written. The user name is re-validated before it is stored.
func (s *Store) SaveSession(ctx context.Context, token, refreshToken string, user models.User) error {
	identity.EnsureName(&user)
	if !user.Role.Valid() {
		user.Role = identity.MapRole(string(user.Role))
	}

	if token != "" {
		if err := s.set(ctx, common.StorageKeyAuthToken, []byte(token), KindDurable); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := s.set(ctx, common.StorageKeyRefreshToken, []byte(refreshToken), KindDurable); err != nil {
			return err
		}
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.set(ctx, common.StorageKeyUserData, data, KindDurable, KindCookie)
}

// LoadSession returns the stored session, or nil when there is none.
// A record that cannot be read or parsed counts as no session.
func (s *Store) LoadSession(ctx context.Context) (*models.Session, error) {
	data, ok := s.get(ctx, common.StorageKeyUserData, KindDurable, KindCookie)
	if !ok {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Warn(ctx, "stored user record is not valid JSON", "error", err)
		return nil, nil
	}
	if user == (models.User{}) {
		return nil, nil
	}

	if !user.Role.Valid() {
		user.Role = identity.MapRole(string(user.Role))
	}
	if identity.EnsureName(&user) {
		if fixed, err := json.Marshal(user); err == nil {
			if err := s.set(ctx, common.StorageKeyUserData, fixed, KindDurable); err != nil {
				s.log.Warn(ctx, "failed to persist repaired user record", "error", err)
			}
		}
	}

	sess := &models.Session{User: user}
	if tok, ok := s.get(ctx, common.StorageKeyAuthToken, KindDurable); ok {
		sess.Token = string(tok)
	}
	if tok, ok := s.get(ctx, common.StorageKeyRefreshToken, KindDurable); ok {
		sess.RefreshToken = string(tok)
	}
	return sess, nil
}

// ClearSession removes the session keys from every backend and wipes
// transient storage. It fails when a durable or cookie backend could not
// be cleared, since LoadSession would still find the record there.
func (s *Store) ClearSession(ctx context.Context) error {
	var errs []error
	persistent := false
	for _, b := range s.backends {
		var err error
		if b.Kind() == KindTransient {
			err = b.Clear(ctx)
		} else {
			err = b.Delete(ctx, sessionKeys...)
		}
		if err != nil {
			s.log.Warn(ctx, "failed to clear session backend", "backend", b.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			persistent = persistent || b.Kind() != KindTransient
		}
	}
	if persistent || (len(errs) > 0 && len(errs) == len(s.backends)) {
		return fmt.Errorf("clear session: %w", errors.Join(errs...))
	}
	return nil
}

// Token returns the stored bearer token, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, _ := s.get(ctx, common.StorageKeyAuthToken, KindDurable)
	return string(v), nil
}

// RefreshToken returns the stored refresh token, or "" when there is none.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	v, _ := s.get(ctx, common.StorageKeyRefreshToken, KindDurable)
	return string(v), nil
}

// RequireRole loads the session and checks that its role is one of roles.
func (s *Store) RequireRole(ctx context.Context, roles ...models.Role) (*models.Session, error) {
	sess, err := s.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotLoggedIn
	}
	if len(roles) > 0 && !slices.Contains(roles, sess.Role) {
		return sess, fmt.Errorf("%w: role %s", ErrForbidden, sess.Role)
	}
	return sess, nil
}

// SetTransient stores a per-run value that ClearSession wipes.
func (s *Store) SetTransient(ctx context.Context, key, value string) error {
	return s.set(ctx, key, []byte(value), KindTransient)
}

// Transient returns a per-run value, or "" when it is not set.
func (s *Store) Transient(ctx context.Context, key string) string {
	v, _ := s.get(ctx, key, KindTransient)
	return string(v)
}

// get returns the value from the first backend of the given kinds that has
// it. Backend errors other than ErrNotFound are logged and skipped.
func (s *Store) get(ctx context.Context, key string, kinds ...Kind) ([]byte, bool) {
	for _, b := range s.backends {
		if !slices.Contains(kinds, b.Kind()) {
			continue
		}
		v, err := b.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			s.log.Warn(ctx, "session backend read failed", "backend", b.Name(), "key", key, "error", err)
			continue
		}
		return v, true
	}
	return nil, false
}

// set writes the value to every backend of the given kinds. It fails only
// when every targeted backend failed.
func (s *Store) set(ctx context.Context, key string, value []byte, kinds ...Kind) error {
	var errs []error
	targeted := 0
	for _, b := range s.backends {
		if !slices.Contains(kinds, b.Kind()) {
			continue
		}
		targeted++
		if err := b.Set(ctx, key, value); err != nil {
			s.log.Warn(ctx, "session backend write failed", "backend", b.Name(), "key", key, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
		}
	}
	if targeted > 0 && len(errs) == targeted {
		return fmt.Errorf("store %s: %w", key, errors.Join(errs...))
	}
	return nil
}
