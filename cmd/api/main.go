package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kongphop555/pocket-ledger/internal/config"
	"github.com/kongphop555/pocket-ledger/internal/handler"
	"github.com/kongphop555/pocket-ledger/internal/ledger"
	"github.com/kongphop555/pocket-ledger/internal/logging"
	"github.com/kongphop555/pocket-ledger/internal/middleware"
	"github.com/kongphop555/pocket-ledger/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("pocket-ledger-api", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	snapshots, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}
	if closer, ok := snapshots.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	repo := ledger.NewRepository(snapshots, cfg.SnapshotKey)
	if err := repo.Load(context.Background()); err != nil {
		slog.Error("failed to load pocket snapshot", "error", err)
		os.Exit(1)
	}

	engine := ledger.NewEngine(repo)
	billPayments := ledger.NewBillPayments(repo)
	aggregator := ledger.NewAggregator(repo)

	mux := handler.NewMux(
		handler.NewPocketHandler(repo),
		handler.NewTransactionHandler(engine),
		handler.NewBillPaymentHandler(billPayments),
		handler.NewReportHandler(aggregator),
		handler.NewHealthHandler(snapshots),
	)

	chain := middleware.RequestID(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "storage_driver", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StorageDriver {
	case "file":
		return store.NewFile(cfg.DataDir)
	case "postgres":
		return store.NewPostgres(ctx, cfg.DatabaseURL, store.PoolConfig{
			MaxOpenConns:     cfg.DBMaxOpenConns,
			MaxIdleConns:     cfg.DBMaxIdleConns,
			ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
			ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
		})
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("openStore: unknown storage driver %q", cfg.StorageDriver)
	}
}
