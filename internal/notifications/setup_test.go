package notifications

import (
	"context"
	"errors"
	"testing"

	"mentorbook/pkg/config"
	kafka_middleware "mentorbook/pkg/kafka/middleware"
	"mentorbook/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware(t *testing.T) {
	metrics := kafka_middleware.NewMetrics()
	fail := true
	handler := MetricsMiddleware(metrics)(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		if fail {
			return errors.New("smtp down")
		}
		return nil
	}))

	task := asynq.NewTask("booking:confirmation", nil)
	assert.Error(t, handler.ProcessTask(context.Background(), task))
	fail = false
	assert.NoError(t, handler.ProcessTask(context.Background(), task))

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.Consumed)
	assert.EqualValues(t, 1, snap.ConsumeFailed)
}

func TestNewDispatcher_UnknownBackend(t *testing.T) {
	_, _, err := NewDispatcher(&config.Config{NotifierBackend: "carrier-pigeon"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestNewDispatcher_Asynq(t *testing.T) {
	cfg := &config.Config{
		NotifierBackend:        config.NotifierAsynq,
		RedisAddr:              "127.0.0.1:6379",
		NotificationQueue:      "notifications",
		NotificationMaxRetries: 3,
	}
	dispatcher, closeFn, err := NewDispatcher(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &AsynqDispatcher{}, dispatcher)
	assert.NoError(t, closeFn())
}

func TestNewDispatcher_KafkaWithoutMetrics(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "127.0.0.1:9092")
	cfg := &config.Config{
		ServiceName:       "api",
		NotifierBackend:   config.NotifierKafka,
		NotificationTopic: "booking-confirmations",
		Log:               logger.Discard(),
	}
	dispatcher, closeFn, err := NewDispatcher(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &KafkaDispatcher{}, dispatcher)
	assert.NoError(t, closeFn())
}
