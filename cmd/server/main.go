package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"boardhub/internal/api"
	"boardhub/internal/app"
	"boardhub/internal/config"
	internaldb "boardhub/internal/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("could not load .env", "error", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	// Open the credential store with hardened connection settings.
	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  4-connection pool for concurrent reads (WAL, no txlock).
	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 4)
	if err != nil {
		return err
	}
	defer writeDB.Close()
	defer readDB.Close()

	logger.Info("running migrations", "db", cfg.DBPath)
	if err := internaldb.RunMigrations(writeDB); err != nil {
		return err
	}

	a, err := app.New(ctx, app.Deps{
		Cfg:     cfg,
		WriteDB: writeDB,
		ReadDB:  readDB,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	handler := api.NewHandler(
		a.Services.User,
		a.Services.Token,
		a.Services.APIKey,
		a.Services.Group,
		a.Services.Guard,
		a.Services.Audit,
	)
	router := api.NewRouter(handler, a.Services.Authenticator, api.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// Expired keys are dead weight in the prefix index; purge them on a schedule.
	c := cron.New()
	if _, err := c.AddFunc(cfg.KeyPurgeSchedule, func() {
		purgeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := a.Services.APIKey.PurgeExpired(purgeCtx)
		if err != nil {
			logger.Warn("purge expired api keys failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("purged expired api keys", "count", n)
		}
	}); err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http api listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
