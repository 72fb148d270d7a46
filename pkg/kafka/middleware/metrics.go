package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"mentorbook/pkg/kafka"
)

// Metrics counts Kafka traffic for one process.
type Metrics struct {
	published       atomic.Int64
	publishFailed   atomic.Int64
	publishDuration atomic.Int64

	consumed        atomic.Int64
	consumeFailed   atomic.Int64
	consumeDuration atomic.Int64
}

type MetricsSnapshot struct {
	Published        int64   `json:"published"`
	PublishFailed    int64   `json:"publish_failed"`
	AvgPublishMillis float64 `json:"avg_publish_ms"`
	Consumed         int64   `json:"consumed"`
	ConsumeFailed    int64   `json:"consume_failed"`
	AvgConsumeMillis float64 `json:"avg_consume_ms"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Published:     m.published.Load(),
		PublishFailed: m.publishFailed.Load(),
		Consumed:      m.consumed.Load(),
		ConsumeFailed: m.consumeFailed.Load(),
	}
	if n := s.Published + s.PublishFailed; n > 0 {
		s.AvgPublishMillis = float64(m.publishDuration.Load()) / float64(n) / float64(time.Millisecond)
	}
	if n := s.Consumed + s.ConsumeFailed; n > 0 {
		s.AvgConsumeMillis = float64(m.consumeDuration.Load()) / float64(n) / float64(time.Millisecond)
	}
	return s
}

// ObservePublish records one publish attempt.
func (m *Metrics) ObservePublish(d time.Duration, err error) {
	m.publishDuration.Add(int64(d))
	if err != nil {
		m.publishFailed.Add(1)
		return
	}
	m.published.Add(1)
}

// ObserveConsume records one handler attempt. Transports other than Kafka
// report through it too.
func (m *Metrics) ObserveConsume(d time.Duration, err error) {
	m.consumeDuration.Add(int64(d))
	if err != nil {
		m.consumeFailed.Add(1)
		return
	}
	m.consumed.Add(1)
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.ObservePublish(time.Since(start), err)
		return err
	}
}

// ConsumerMiddleware counts handler attempts, so a retried message counts once per attempt.
func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.ObserveConsume(time.Since(start), err)
		return err
	}
}
