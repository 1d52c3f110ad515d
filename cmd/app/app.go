package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"lostfound/internal/clock"
	"lostfound/internal/config"
	"lostfound/internal/database"
	handlers "lostfound/internal/handler"
	"lostfound/internal/middleware"
	"lostfound/internal/repository"
	"lostfound/internal/service"
	"lostfound/internal/storage"
	"lostfound/internal/sweeper"
)

type App struct {
	cfg       *config.Config
	db        *database.DB
	scheduler *sweeper.Scheduler
	server    *http.Server
}

// New connects every dependency and builds the HTTP server. Nothing runs
// until Run is called.
func New(cfg *config.Config) (*App, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	clk := clock.Real()
	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient, clk)

	sweepLogger := log.WithPrefix("sweeper")
	sw := sweeper.New(repo.Post, clk, sweepLogger)

	scheduler, err := sweeper.NewScheduler(sw, cfg.Sweeper.Schedule, cfg.Sweeper.Timeout, sweepLogger)
	if err != nil {
		db.CloseDB()
		return nil, err
	}

	h := handlers.NewHandlers(services, sw, db, cfg)
	router := handlers.NewRouter(h, middleware.AuthMiddleware(services.Auth))

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: middleware.Chain(router,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{cfg: cfg, db: db, scheduler: scheduler, server: server}, nil
}

// Run starts the sweep schedule and the HTTP server and blocks until ctx is
// cancelled or the server fails. Shutdown stops the server first, then the
// scheduler, then closes the database.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", a.server.Addr, "database", a.cfg.DB.DbNAME)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown", "err", err)
	}

	// Stop returns only once no sweep is running, cancelling one that outlives shutdownCtx
	if err := a.scheduler.Stop(shutdownCtx); err != nil {
		log.Error("sweep scheduler shutdown", "err", err)
	}

	if err := a.db.CloseDB(); err != nil {
		log.Error("close database", "err", err)
	}

	return runErr
}
