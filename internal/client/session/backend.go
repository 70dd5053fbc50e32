package session

import "context"

// Kind tells the Store which keys a backend receives.
type Kind int

const (
	// KindDurable backends hold tokens and the user record.
	KindDurable Kind = iota
	// KindCookie backends hold the user record only.
	KindCookie
	// KindTransient backends hold per-run values and are wiped on logout.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindDurable:
		return "durable"
	case KindCookie:
		return "cookie"
	case KindTransient:
		return "transient"
	}
	return "unknown"
}

// Backend is a key/value store the Store can read from and write to.
// Get must return ErrNotFound for absent keys.
type Backend interface {
	Name() string
	Kind() Kind
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
