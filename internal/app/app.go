package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-calc-auth/internal/auth"
	"go-calc-auth/internal/config"
	"go-calc-auth/internal/database"
	"go-calc-auth/internal/handler"
	"go-calc-auth/internal/metrics"
	"go-calc-auth/internal/middleware"
	"go-calc-auth/internal/repository"
	"go-calc-auth/internal/router"
	"go-calc-auth/internal/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg      *config.Config
	server   *http.Server
	db       *database.DB
	settings *auth.SettingsStore
	metrics  *metrics.Metrics
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to database", "driver", database.DriverFor(cfg.DatabaseURL))
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	accounts, calculations, err := repository.NewStores(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize stores: %w", err)
	}
	slog.Info("database ready")

	m := metrics.New()
	settings := auth.NewSettingsStore(SettingsFromConfig(cfg))
	hasher := auth.NewHasher(cfg.BcryptCost)
	codec := auth.NewTokenCodec(settings)
	guard := auth.NewGuard(codec, accounts)

	accountService := service.NewAccountService(accounts, hasher, codec, m)
	calculationService := service.NewCalculationService(calculations, m)

	authMiddleware := middleware.NewAuthMiddleware(guard, m)
	appRouter := router.New(cfg, authMiddleware, m, router.Handlers{
		Auth:   handler.NewAuthHandler(accountService),
		Calc:   handler.NewCalcHandler(calculationService),
		Health: handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		cfg:      cfg,
		server:   server,
		db:       db,
		settings: settings,
		metrics:  m,
	}, nil
}

// SettingsFromConfig extracts the token signing settings.
func SettingsFromConfig(cfg *config.Config) auth.Settings {
	return auth.Settings{
		Secret:    []byte(cfg.JWTSecret),
		Algorithm: cfg.JWTAlgorithm,
		AccessTTL: cfg.AccessTTL(),
	}
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// ReloadSettings swaps in the token settings from cfg. Requests in flight
// finish with whichever snapshot they already read.
func (a *App) ReloadSettings(cfg *config.Config) {
	a.settings.Reload(SettingsFromConfig(cfg))
	slog.Info("token settings reloaded", "algorithm", cfg.JWTAlgorithm, "access_ttl", cfg.AccessTTL())
}

func (a *App) Close() {
	a.db.Close()
}

// Run serves until SIGINT or SIGTERM. SIGHUP reloads token settings from
// the environment and .env without restarting.
func (a *App) Run() error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr, "mode", a.cfg.Mode())
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	for {
		select {
		case err, ok := <-serveErr:
			a.Close()
			if ok && err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				a.reloadFromEnvironment()
				continue
			}
			slog.Info("shutdown signal received", "signal", sig.String())
			return a.shutdown()
		}
	}
}

func (a *App) reloadFromEnvironment() {
	cfg, err := config.Reload()
	if err != nil {
		slog.Error("settings reload rejected; keeping current settings", "error", err)
		return
	}
	a.ReloadSettings(cfg)
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(ctx)
	a.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
