package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/megumiii12/athlete/internal/cache"
	"github.com/megumiii12/athlete/internal/config"
	"github.com/megumiii12/athlete/internal/database"
	"github.com/megumiii12/athlete/internal/handlers"
	"github.com/megumiii12/athlete/internal/jobs"
	"github.com/megumiii12/athlete/internal/log"
	"github.com/megumiii12/athlete/internal/server"
	"github.com/megumiii12/athlete/internal/storage"
	"github.com/megumiii12/athlete/internal/vitals"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	if err := database.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	classifier := loadClassifier(ctx, cfg, logger)

	handlerSet := handlers.NewHandlerSet(logger, dbPool, redisClient, classifier, cfg)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(handlerSet.SessionRepository(), cfg.Security.CleanupInterval, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

// loadClassifier resolves the classification path once for the process
// lifetime. A missing or unreadable artifact is not fatal: the service
// degrades to the rule-based threshold engine and says so exactly once.
func loadClassifier(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) vitals.Classifier {
	modelStore, err := storage.NewModelStore(cfg.Storage)
	if err != nil {
		logger.Warn().Err(err).Msg("model store unavailable; using threshold rules")
		return vitals.NewThresholdClassifier()
	}

	artifact, err := modelStore.FetchArtifact(ctx, cfg.Model)
	if err != nil {
		logger.Warn().Err(err).Msg("model artifact unavailable; using threshold rules")
		return vitals.NewThresholdClassifier()
	}

	classifier, err := vitals.NewModelClassifier(artifact)
	if err != nil {
		logger.Warn().Err(err).Msg("model artifact invalid; using threshold rules")
		return vitals.NewThresholdClassifier()
	}

	logger.Info().Msg("classifier model loaded")
	return classifier
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
