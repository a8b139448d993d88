package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vishal13230/BellCurve-Securities/pkg/config"
	xhttp "github.com/vishal13230/BellCurve-Securities/pkg/http"
	applogger "github.com/vishal13230/BellCurve-Securities/pkg/logger"
)

// Closer is a named resource the app must release on shutdown, in the order
// closers were registered.
type Closer struct {
	Name  string
	Close func() error
}

// App ties the HTTP server and infrastructure clients into one lifecycle.
type App struct {
	cfg     *config.Config
	log     *applogger.Logger
	handler xhttp.Handler
	httpSrv *xhttp.Server
	closers []Closer
}

// New creates the application.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, closers ...Closer) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		closers: closers,
	}
}

// Run starts the HTTP server and blocks until an interrupt or SIGTERM,
// then shuts down gracefully.
func (a *App) Run() error {
	a.httpSrv = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpSrv.Start(); err != nil {
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
		applogger.String("provider", a.cfg.Provider.Type),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpSrv.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if c.Close == nil {
			continue
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", c.Name), applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
