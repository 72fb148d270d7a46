package notifications

import (
	"context"
	"fmt"
	"time"

	"mentorbook/pkg/config"
	"mentorbook/pkg/kafka"
	kafka_config "mentorbook/pkg/kafka/config"
	kafka_middleware "mentorbook/pkg/kafka/middleware"

	"github.com/hibiken/asynq"
)

// NewDispatcher builds the dispatcher for NOTIFIER_BACKEND. The returned
// close func releases the underlying producer or client.
func NewDispatcher(cfg *config.Config, metrics *kafka_middleware.Metrics) (Dispatcher, func() error, error) {
	switch cfg.NotifierBackend {
	case config.NotifierKafka:
		kcfg, err := kafka_config.Load()
		if err != nil {
			return nil, nil, fmt.Errorf("invalid kafka configuration: %w", err)
		}
		kcfg.LogConfiguration(cfg.Log)

		producer, err := kafka.NewProducer(kcfg, cfg.NotificationTopic, cfg.NotificationDLQTopic, cfg.Log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		if metrics != nil {
			producer.Use(metrics.ProducerMiddleware())
		}
		return NewKafkaDispatcher(producer, cfg.ServiceName), producer.Close, nil

	case config.NotifierAsynq:
		client := asynq.NewClient(RedisOpt(cfg))
		dispatcher := NewAsynqDispatcher(client, AsynqOptions{
			Queue:      cfg.NotificationQueue,
			MaxRetries: cfg.NotificationMaxRetries,
			Timeout:    cfg.NotificationTimeout,
		})
		return dispatcher, client.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported notifier backend %q", cfg.NotifierBackend)
}

func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// MetricsMiddleware reports asynq task attempts into metrics.
func MetricsMiddleware(metrics *kafka_middleware.Metrics) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			start := time.Now()
			err := next.ProcessTask(ctx, task)
			metrics.ObserveConsume(time.Since(start), err)
			return err
		})
	}
}
