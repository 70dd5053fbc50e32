package devapi

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/newsclient/internal/devapi/auth"
	"github.com/dmitrijs2005/newsclient/internal/devapi/config"
	"github.com/dmitrijs2005/newsclient/internal/devapi/store"
	"github.com/dmitrijs2005/newsclient/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

// NewApp seeds an in-memory store and builds the HTTP server around it.
func NewApp(c *config.Config, logger logging.Logger) *App {
	st := store.New()
	st.Seed(time.Now(), c.SeedDays)

	return &App{
		config: c,
		logger: logger,
		server: NewServer(c, logger, st, auth.NewOTPStore(c.OTPTTL)),
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or the server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting dev API...", "shape", app.config.AuthShape, "admins", app.config.Admins)
	app.initSignalHandler(cancelFunc)

	return app.server.Run(ctx)
}
