package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"account-service/internal/config"
	hrest "account-service/internal/handler/rest"
	"account-service/internal/pub"
	"account-service/internal/repository"
	"account-service/internal/sub"
	"account-service/internal/usecase"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Run wires the service together and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg config.AppConfig, logger *zap.Logger) error {
	// --- DB connection ---
	dbpool, err := config.ConnectDB()
	if err != nil {
		return err
	}
	defer dbpool.Close()

	// --- Migrations ---
	if err := runMigrations(cfg); err != nil {
		return err
	}

	// --- Redis client ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	defer rdb.Close()

	// --- Repositories ---
	accountRepo := repository.NewAccountRepo(dbpool)
	txRepo := repository.NewTransactionRepo(dbpool)

	// --- Event publisher ---
	publisher := pub.NewTransactionEventPublisher(cfg.KafkaBrokers, cfg.TransactionEventsTopic, logger)
	defer publisher.Close()

	// --- Usecases ---
	accountUC := usecase.NewAccountUsecase(accountRepo, rdb, logger)
	txUC := usecase.NewTransactionUsecase(accountRepo, txRepo, publisher, logger)
	reportUC := usecase.NewReportUsecase(accountRepo, txRepo, rdb, logger)
	syncUC := usecase.NewClientSyncUsecase(accountRepo, logger)

	// --- Client update consumer ---
	consumer := sub.NewClientUpdateConsumer(cfg.KafkaBrokers, cfg.ConsumerGroupID, cfg.ClientUpdatedTopic, syncUC, logger)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error("client update consumer stopped", zap.Error(err))
		}
	}()
	defer consumer.Stop()

	// --- REST handler ---
	handler := hrest.NewAccountingRestHandler(accountUC, txUC, reportUC, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrations(cfg config.AppConfig) error {
	m, err := migrate.New("file://"+cfg.MigrationsPath, config.DatabaseURL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
