package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"PortTrack/pkg/config"
	xhttp "PortTrack/pkg/http"
	applogger "PortTrack/pkg/logger"
	"PortTrack/pkg/scheduler"
)

// App encapsulates the application lifecycle: the HTTP server and the
// periodic market refresh.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	refresh    scheduler.Job
	cancel     context.CancelFunc
	httpServer *xhttp.Server
	sched      *scheduler.Scheduler
}

// New creates the application from its wired dependencies. cancel
// tears down the process context the refresh job runs under.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, refresh scheduler.Job, cancel context.CancelFunc) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
		refresh: refresh,
		cancel:  cancel,
	}
}

// Run starts the scheduler and the HTTP server, then blocks until a
// shutdown signal arrives.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.log, a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.sched = scheduler.New(a.log)
	if err := a.sched.Every(a.cfg.Market.RefreshInterval, a.refresh); err != nil {
		return err
	}

	// Prime the caches before the first scheduled tick. A failed first
	// cycle is not fatal: the ledgers still serve durable state.
	if err := a.sched.RunNow(a.refresh); err != nil {
		a.log.Warn("initial refresh failed", applogger.Error(err))
	}
	a.sched.Start()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown cancels the process context so an in-flight refresh cycle
// aborts, stops the scheduler, then drains the HTTP server.
func (a *App) shutdown() error {
	if a.cancel != nil {
		a.cancel()
	}
	a.sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}

	a.log.Info("shutdown complete")
	return nil
}
