package session

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/filex"
)

// CookieTTL is how long a stored cookie stays valid.
const CookieTTL = 30 * 24 * time.Hour

// CookieBackend keeps cookies scoped to the API host in a file of
// Set-Cookie lines. Cookies are Secure, SameSite=Strict and Path=/.
// Values are query-escaped so JSON survives the cookie value grammar.
type CookieBackend struct {
	mu     sync.Mutex
	path   string
	domain string
	now    func() time.Time
}

func NewCookieBackend(path, domain string) *CookieBackend {
	return &CookieBackend{path: path, domain: domain, now: time.Now}
}

func (b *CookieBackend) Name() string { return "cookie" }

func (b *CookieBackend) Kind() Kind { return KindCookie }

func (b *CookieBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	jar, err := b.load()
	if err != nil {
		return nil, err
	}
	c, ok := jar[key]
	if !ok {
		return nil, ErrNotFound
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil, fmt.Errorf("cookie %s: %w", key, err)
	}
	return []byte(v), nil
}

func (b *CookieBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	jar, err := b.load()
	if err != nil {
		return err
	}
	jar[key] = &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(string(value)),
		Domain:   b.domain,
		Path:     "/",
		Expires:  b.now().Add(CookieTTL).UTC().Truncate(time.Second),
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	return b.save(jar)
}

func (b *CookieBackend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	jar, err := b.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(jar, k)
	}
	return b.save(jar)
}

func (b *CookieBackend) Clear(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := os.Remove(b.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cookie file: %w", err)
	}
	return nil
}

// load reads unexpired cookies. A missing file is an empty jar; lines that
// do not parse are skipped.
func (b *CookieBackend) load() (map[string]*http.Cookie, error) {
	jar := make(map[string]*http.Cookie)

	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return jar, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}

	now := b.now()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		c, err := http.ParseSetCookie(line)
		if err != nil {
			continue
		}
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		jar[c.Name] = c
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan cookie file: %w", err)
	}
	return jar, nil
}

func (b *CookieBackend) save(jar map[string]*http.Cookie) error {
	names := make([]string, 0, len(jar))
	for name := range jar {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString(jar[name].String())
		buf.WriteByte('\n')
	}
	return filex.WriteFileAtomic(b.path, buf.Bytes(), 0o600)
}
