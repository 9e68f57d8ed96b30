package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"duitku/internal/config"
	"duitku/internal/history"
	apphttp "duitku/internal/http"
	"duitku/internal/log"
	"duitku/internal/manager"
	"duitku/internal/seed"
	"duitku/internal/store"
	"duitku/internal/worker"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Choose data backend (default: memory).
	var kv store.KV
	switch cfg.DataBackend {
	case "sqlite":
		db, err := store.NewSQLite(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite backend",
				log.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()
		kv = db
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		kv = store.NewMemory()
		logger.Info("Initialized memory backend")
	}

	hist := history.NewLogger(kv, logger)
	expenses := manager.NewExpenseManager(ctx, kv, hist, logger)
	categories := manager.NewCategoryManager(ctx, kv, hist, logger)
	sources := manager.NewSourceManager(ctx, kv, hist, logger)

	// First-start seeding. Collections the user has touched, even
	// emptied ones, are left alone.
	if err := categories.Seed(ctx, seed.CategoriesFromDir(cfg.DataDir)); err != nil {
		logger.Error("Failed to seed categories", log.FieldError, err)
		os.Exit(1)
	}
	if err := sources.Seed(ctx, seed.SourcesFromDir(cfg.DataDir)); err != nil {
		logger.Error("Failed to seed sources", log.FieldError, err)
		os.Exit(1)
	}

	poller := worker.NewHistoryPoller(hist, cfg.PollInterval, logger)
	srv := apphttp.NewServer(":"+cfg.Port, expenses, categories, sources, hist, poller, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := poller.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		logger.Info("Starting duitku server",
			log.FieldOperation, log.OpStartup, "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
