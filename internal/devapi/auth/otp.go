package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrCodeInvalid is returned for a wrong, expired or exhausted code.
var ErrCodeInvalid = errors.New("invalid or expired code")

const (
	CodeLength  = 6
	MaxAttempts = 5
)

type otpEntry struct {
	hash     []byte
	expires  time.Time
	attempts int
}

// OTPStore keeps one bcrypt-hashed code per email. Issuing a new code
// replaces the previous one.
type OTPStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	cost    int
	now     func() time.Time
	entries map[string]*otpEntry
}

func NewOTPStore(ttl time.Duration) *OTPStore {
	return &OTPStore{
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
		entries: make(map[string]*otpEntry),
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomCode() (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(CodeLength), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeLength, n), nil
}

// Issue creates a fresh code for email and returns it in clear text.
func (s *OTPStore) Issue(email string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[normalize(email)] = &otpEntry{hash: hash, expires: s.now().Add(s.ttl)}
	return code, nil
}

// Verify checks code for email. A matching code is consumed; after
// MaxAttempts failures the code is discarded.
func (s *OTPStore) Verify(email, code string) error {
	key := normalize(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return ErrCodeInvalid
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, key)
		return ErrCodeInvalid
	}
	if err := bcrypt.CompareHashAndPassword(e.hash, []byte(strings.TrimSpace(code))); err != nil {
		e.attempts++
		if e.attempts >= MaxAttempts {
			delete(s.entries, key)
		}
		return ErrCodeInvalid
	}
	delete(s.entries, key)
	return nil
}
