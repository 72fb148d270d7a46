package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	bookingrepo "mentorbook/internal/bookings/repository"
	"mentorbook/internal/health"
	mentorrepo "mentorbook/internal/mentors/repository"
	"mentorbook/internal/notifications"
	"mentorbook/pkg/config"
	"mentorbook/pkg/kafka"
	kafka_config "mentorbook/pkg/kafka/config"
	kafka_middleware "mentorbook/pkg/kafka/middleware"
	"mentorbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	cfg.SetStore()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := kafka_middleware.NewMetrics()
	handler := notifications.NewConfirmationHandler(
		bookingrepo.New(cfg),
		mentorrepo.New(cfg),
		newLedger(cfg),
		notifications.NewLogMailer(cfg.NotificationSendDelay, cfg.Log),
		cfg.Log,
	).WithLease(2 * cfg.NotificationTimeout)

	cfg.Log.Info("Starting notifier", "backend", cfg.NotifierBackend)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serveHealth(ctx, cfg, metrics)
	})
	g.Go(func() error {
		switch cfg.NotifierBackend {
		case config.NotifierKafka:
			return runKafka(ctx, cfg, handler, metrics)
		default:
			return runAsynq(ctx, cfg, handler, metrics)
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Notifier stopped", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}

// newLedger prefers Redis so deduplication holds across notifier replicas.
func newLedger(cfg *config.Config) notifications.Ledger {
	if cfg.Client.Redis != nil {
		return notifications.NewRedisLedger(cfg.Client.Redis, cfg.NotificationDedupeTTL)
	}
	cfg.Log.Warn("Redis not configured, confirmations are deduplicated per process only")
	return notifications.NewMemoryLedger(cfg.NotificationDedupeTTL)
}

func runKafka(ctx context.Context, cfg *config.Config, h *notifications.ConfirmationHandler, metrics *kafka_middleware.Metrics) error {
	kcfg, err := kafka_config.Load()
	if err != nil {
		return err
	}
	kcfg.ConsumerMaxRetries = cfg.NotificationMaxRetries
	kcfg.ConsumerRetryBackoff = cfg.NotificationRetryBase
	kcfg.ConsumerRetryMaxBackoff = cfg.NotificationRetryMax
	kcfg.LogConfiguration(cfg.Log)

	consumer, err := kafka.NewConsumer(
		kcfg,
		cfg.NotificationTopic,
		cfg.NotificationGroupID,
		cfg.NotificationDLQTopic,
		notifications.KafkaHandler(h, cfg.NotificationTimeout),
		cfg.Log,
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close kafka consumer", "error", err)
		}
	}()

	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.ConsumerMiddleware())
	return consumer.Start(ctx)
}

func runAsynq(ctx context.Context, cfg *config.Config, h *notifications.ConfirmationHandler, metrics *kafka_middleware.Metrics) error {
	srv := notifications.NewAsynqServer(notifications.ServerOptions{
		Redis:       notifications.RedisOpt(cfg),
		Queue:       cfg.NotificationQueue,
		Concurrency: cfg.NotifierConcurrency,
		RetryBase:   cfg.NotificationRetryBase,
		RetryMax:    cfg.NotificationRetryMax,
	}, cfg.Log)

	mux := notifications.NewServeMux(h)
	mux.Use(notifications.MetricsMiddleware(metrics))

	if err := srv.Start(mux); err != nil {
		return err
	}
	<-ctx.Done()
	srv.Shutdown()
	return ctx.Err()
}

func serveHealth(ctx context.Context, cfg *config.Config, metrics *kafka_middleware.Metrics) error {
	router := httprouter.New()
	health.NewHealthHandler(cfg.Client.Checks(), cfg.Log).
		WithStats(func() any { return metrics.Snapshot() }).
		RegisterRoutes(router)

	var handler http.Handler = router
	handler = middleware.RequestLogging(cfg.Log)(handler)
	handler = middleware.Recovery(cfg.Log)(handler)

	server := &http.Server{
		Addr:         ":" + cfg.NotifierPort,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.Log.Info("Starting health server", "address", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			cfg.Log.Error("Health server shutdown failed", "error", err)
		}
		return ctx.Err()
	}
}
