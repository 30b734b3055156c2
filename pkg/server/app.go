package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoSeason/internal/service/ratelimit"
	"CryptoSeason/internal/usecase"
	xhttp "CryptoSeason/pkg/http"
	applogger "CryptoSeason/pkg/logger"
)

const limiterPruneInterval = time.Minute

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the entire application lifecycle.
type App struct {
	log        *applogger.Logger
	dash       *usecase.Dashboard
	httpServer *xhttp.Server
	limiter    *ratelimit.Limiter
	closers    []namedCloser
}

// Option configures App.
type Option func(*App)

// WithCloser registers a resource closed on shutdown, after the dashboard.
// Nil closers are ignored.
func WithCloser(name string, c io.Closer) Option {
	return func(a *App) {
		if c != nil {
			a.closers = append(a.closers, namedCloser{name: name, c: c})
		}
	}
}

// WithLimiter prunes idle limiter buckets while the app runs.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(a *App) { a.limiter = l }
}

// New creates a new App instance with all dependencies.
func New(l *applogger.Logger, dash *usecase.Dashboard, srv *xhttp.Server, opts ...Option) *App {
	a := &App{log: l, dash: dash, httpServer: srv}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the application and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.dash.Start(ctx); err != nil {
		return err
	}
	a.log.Info("dashboard started", applogger.String("asset", a.dash.View().Selected.String()))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	if a.limiter != nil {
		go a.pruneLimiter(ctx)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) pruneLimiter(ctx context.Context) {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Prune(); n > 0 {
				a.log.Debug("rate limiter pruned", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown stops the HTTP server first so no new selections arrive, then
// the dashboard, then infrastructure.
func (a *App) shutdown() error {
	a.log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.dash.Close(); err != nil {
		a.log.Warn("dashboard close error", applogger.Error(err))
	}

	for _, nc := range a.closers {
		if err := nc.c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
