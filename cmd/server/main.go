package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/hongminglow/expense-tracker-be/internal/config"
	"github.com/hongminglow/expense-tracker-be/internal/logger"
	"github.com/hongminglow/expense-tracker-be/internal/server"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/hongminglow/expense-tracker-be/internal/storage/memory"
	postgres "github.com/hongminglow/expense-tracker-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logg := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logg)

	if err := run(cfg, logg); err != nil {
		logg.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logg.Info("server stopped")
}

func run(cfg config.Config, logg *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	srv := server.New(cfg, store, logg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info("expense tracker listening", "addr", cfg.HTTPAddress(), "storage", cfg.StorageBackend)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		srv.SweepVisitors(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(ctxShutdown)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageBackend == config.BackendMemory {
		return memory.NewStore(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseDSN(), postgres.Options{MaxConns: cfg.DB.MaxConns})
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
