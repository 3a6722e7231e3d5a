package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/classhour/backend/internal/app"
	"github.com/classhour/backend/internal/config"
	"github.com/classhour/backend/internal/controller"
	"github.com/classhour/backend/internal/repository"
	"github.com/classhour/backend/internal/repository/memory"
	"github.com/classhour/backend/internal/repository/postgres"
	"github.com/classhour/backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("starting classhour backend",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up storage", zap.Error(err))
	}
	defer cleanup()

	avail := service.NewAvailabilityService(store, logger)
	matcher := service.NewMatcher(store, avail, logger)
	ledger := service.NewLedgerService(store, logger)
	courses := service.NewCourseService(store, ledger, logger)
	booking := service.NewBookingService(store, matcher, ledger, logger)
	admin := service.NewAdminService(store, ledger, logger)

	ctrl := controller.New(avail, matcher, courses, booking, ledger, admin, logger)
	server := app.NewServer(cfg.HTTPAddr, ctrl.Router(), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown did not finish cleanly", zap.Error(err))
	}
}

// buildStore picks the storage backend: postgres when DB_DSN is set, the
// in-memory store otherwise (development only; config enforces that).
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, func(), error) {
	if cfg.DBDSN == "" {
		logger.Warn("DB_DSN not set, using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		pool.Close()
		return nil, nil, err
	}
	migrator.Close()

	return postgres.NewStore(pool), pool.Close, nil
}
