package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/buildinfo"
	"github.com/dmitrijs2005/newsclient/internal/client/client"
	"github.com/dmitrijs2005/newsclient/internal/client/config"
	"github.com/dmitrijs2005/newsclient/internal/client/epaper"
	"github.com/dmitrijs2005/newsclient/internal/client/media"
	"github.com/dmitrijs2005/newsclient/internal/client/models"
	"github.com/dmitrijs2005/newsclient/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/newsclient/internal/client/services"
	"github.com/dmitrijs2005/newsclient/internal/client/session"
	"github.com/dmitrijs2005/newsclient/internal/filex"
	"github.com/dmitrijs2005/newsclient/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is the interactive client: configuration, services and the terminal
// it talks to.
type App struct {
	config *config.Config
	log    logging.Logger

	authService     services.AuthService
	categoryService services.CategoryService
	commentService  services.CommentService
	editionService  services.EditionService

	httpClient *http.Client
	reader     *bufio.Reader
	out        io.Writer

	// user caches the session for the prompt; commands refresh it.
	user *models.Session

	mu   sync.Mutex
	mode Mode

	closers []func() error
}

// NewApp opens local storage, connects the optional Redis backend and
// builds the API services from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{
		config:     c,
		log:        log,
		httpClient: &http.Client{Timeout: c.RequestTimeout},
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
	}

	var err error
	if c.DataDir, err = filex.EnsureDir(c.DataDir); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.DBPath())
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath(), "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	apiURL, err := url.Parse(c.APIBaseURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("api base url: %w", err)
	}

	store := session.NewStore(log, a.backends(ctx, db, apiURL.Hostname())...)

	api, err := client.NewRESTClient(client.Options{
		BaseURL:   c.APIBaseURL,
		Timeout:   c.RequestTimeout,
		UserAgent: buildinfo.UserAgent("newsclient"),
		Tokens:    store,
		Logger:    log,
		OnUnauthorized: func(ctx context.Context) {
			log.Warn(ctx, "upstream rejected the session token")
		},
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	mediaBase := c.MediaBaseURL
	if mediaBase == "" {
		mediaBase = c.APIBaseURL
	}
	resolver, err := media.NewResolver(ctx, mediaBase, media.S3Options{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
	}, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("media resolver: %w", err)
	}

	a.authService = services.NewAuthService(api, store, log)
	a.categoryService = services.NewCategoryService(api, store, log)
	a.commentService = services.NewCommentService(api, store, log)
	a.editionService = services.NewEditionService(api, resolver, log)

	return a, nil
}

// backends assembles the session backends: SQLite, Redis when configured,
// the cookie file and an in-memory transient store.
func (a *App) backends(ctx context.Context, db *sql.DB, domain string) []session.Backend {
	out := []session.Backend{session.NewMetadataBackend(metadata.NewSQLiteRepository(db))}

	if a.config.RedisAddr != "" {
		rdb, err := session.NewRedisClient(ctx, a.config.RedisAddr, a.config.RedisPassword, a.config.RedisDB)
		if err != nil {
			a.log.Warn(ctx, "redis unavailable, continuing without it", "addr", a.config.RedisAddr, "error", err)
		} else {
			out = append(out, session.NewRedisBackend(rdb, session.DefaultRedisPrefix))
			a.closers = append(a.closers, rdb.Close)
		}
	}

	return append(out,
		session.NewCookieBackend(a.config.CookiePath(), domain),
		session.NewMemoryBackend(session.KindTransient),
	)
}

// Close releases storage handles in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(context.Background(), "connectivity changed", "mode", string(mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// refreshUser reloads the cached session from storage.
func (a *App) refreshUser(ctx context.Context) {
	res := a.authService.CurrentUser(ctx)
	if res.Success {
		a.user = res.Data
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.authService.Ping(ctx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// StartOnlineStatusWatcher pings the upstream every interval until ctx is
// done and keeps Mode in sync with the result.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	var parts []string
	if a.user != nil {
		parts = append(parts, fmt.Sprintf("%s [%s]", a.user.Name, a.user.Role))
	}
	if m := a.Mode(); m != ModeUnknown {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Run starts the watcher and blocks in the REPL until the user exits or
// stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the news client (type 'help' for commands)")

	a.refreshUser(ctx)
	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// platform wires the e-paper side effects to the terminal.
func (a *App) platform() (epaper.Platform, *terminalDisplay) {
	display := &terminalDisplay{w: a.out}
	p := epaper.Platform{
		Display:    display,
		Downloader: &httpDownloader{client: a.httpClient, dir: a.config.DownloadDir},
		Clipboard:  &osc52Clipboard{w: a.out},
		Notifier:   &writerNotifier{w: a.out},
		Printer:    &systemOpener{},
	}
	if base, err := url.Parse(a.config.APIBaseURL); err == nil && base.Host != "" {
		p.Locator = editionLocator{base: base}
	}
	return p, display
}
