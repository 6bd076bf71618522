// Package server initializes and runs the application server: it builds the
// document store, the services on top of it and the HTTP endpoint, and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/config"
	"github.com/asmolyar/webpen/internal/server/httpapi"
	"github.com/asmolyar/webpen/internal/server/profiles"
	"github.com/asmolyar/webpen/internal/server/projects"
	"github.com/asmolyar/webpen/internal/server/stats"
	"github.com/asmolyar/webpen/internal/server/store"
	"github.com/asmolyar/webpen/internal/server/users"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	st := store.NewFileStore(cfg.DataFile, logger)

	fetcher, err := stats.NewGitHubFetcher(cfg.StatsBaseURL, cfg.StatsTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("stats client init error: %w", err)
	}

	us := users.NewService(st, cfg, logger)
	ps := projects.NewService(st, logger)
	prs := profiles.NewService(st, fetcher, logger)

	srv := httpapi.NewServer(cfg.EndpointAddr, logger, us, ps, prs, cfg.SecretKey)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...", "data_file", app.config.DataFile)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
