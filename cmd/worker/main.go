package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/huddle/internal/app"
	"github.com/felixgeelhaar/huddle/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/huddle/pkg/config"
	"github.com/felixgeelhaar/huddle/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting huddle worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.OutboxProcessorEnabled {
		logger.Info("starting outbox processor",
			"poll_interval", cfg.OutboxPollInterval,
			"batch_size", cfg.OutboxBatchSize,
			"max_retries", cfg.OutboxMaxRetries,
		)
		if err := container.OutboxProcessor.Start(ctx); err != nil {
			logger.Error("failed to start outbox processor", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("outbox processor disabled")
	}

	// With a broker configured, notifications are produced from the queue.
	// Without one the in-process bus already feeds the consumer.
	if container.InProcessEventBus == nil {
		consumer, err := startConsumer(ctx, cfg, container, logger)
		if err != nil {
			logger.Error("failed to start event consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()
	}

	go runCleanup(ctx, cfg, container, logger)

	if cfg.WorkerHealthAddr != "" {
		startHTTP(ctx, cfg.WorkerHealthAddr, container, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
}

func startConsumer(ctx context.Context, cfg *config.Config, container *app.Container, logger *slog.Logger) (eventbus.Consumer, error) {
	registry := eventbus.NewConsumerRegistry(logger)
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:       cfg.RabbitMQURL,
		QueueName: cfg.RabbitMQQueue,
		Logger:    logger,
	}, registry)
	if err != nil {
		return nil, err
	}
	consumer.RegisterConsumer(app.ObservedConsumer(container.MeetingEventsConsumer, container.Metrics))

	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("event consumer stopped", "error", err)
		}
	}()
	return consumer, nil
}

func runCleanup(ctx context.Context, cfg *config.Config, container *app.Container, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := container.OutboxProcessor.Cleanup(ctx, cfg.OutboxRetention())
			if err != nil {
				logger.Error("outbox cleanup failed", "error", err)
				continue
			}
			if deleted > 0 {
				logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
			}
		}
	}
}

func startHTTP(ctx context.Context, addr string, container *app.Container, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/health", container.HealthRegistry().Handler())
	mux.Handle("/metrics", container.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		stats := container.OutboxProcessor.GetStats()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":            "ok",
			"running":           stats.IsRunning,
			"published":         stats.PublishedCount,
			"failed":            stats.FailedCount,
			"dead":              stats.DeadCount,
			"lag_seconds":       stats.LagSeconds,
			"last_processed_at": stats.LastProcessedAt,
			"last_error":        stats.LastError,
		})
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}
