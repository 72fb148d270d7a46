package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
	"mentorbook/pkg/retry"

	"github.com/hibiken/asynq"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type AsynqOptions struct {
	Queue      string
	MaxRetries int
	Timeout    time.Duration
}

type AsynqDispatcher struct {
	client Enqueuer
	opts   AsynqOptions
}

func NewAsynqDispatcher(client Enqueuer, opts AsynqOptions) *AsynqDispatcher {
	return &AsynqDispatcher{
		client: client,
		opts:   opts,
	}
}

// NewConfirmationTask builds the task for bookingID. The task id is the
// idempotence key, so asynq rejects a second enqueue of the same booking.
func NewConfirmationTask(bookingID int64, opts AsynqOptions) (*asynq.Task, []asynq.Option, error) {
	payload := model.BookingConfirmation{BookingID: bookingID}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode confirmation payload: %w", err)
	}

	options := []asynq.Option{
		asynq.TaskID(payload.IdempotencyKey()),
		asynq.MaxRetry(opts.MaxRetries),
	}
	if opts.Queue != "" {
		options = append(options, asynq.Queue(opts.Queue))
	}
	if opts.Timeout > 0 {
		options = append(options, asynq.Timeout(opts.Timeout))
	}
	return asynq.NewTask(model.TaskBookingConfirmation, data), options, nil
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, bookingID int64) error {
	task, options, err := NewConfirmationTask(bookingID, d.opts)
	if err != nil {
		return err
	}

	if _, err := d.client.EnqueueContext(ctx, task, options...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("failed to enqueue confirmation for booking %d: %w", bookingID, err)
	}
	return nil
}

// ProcessTask lets the handler serve asynq tasks. Permanent failures are
// archived at once instead of retried.
func (h *ConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload model.BookingConfirmation
	if err := json.Unmarshal(task.Payload(), &payload); err != nil || payload.BookingID <= 0 {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, ErrInvalidPayload)
	}

	if err := h.Handle(ctx, payload.BookingID); err != nil {
		if IsPermanent(err) {
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}
	return nil
}

type ServerOptions struct {
	Redis       asynq.RedisClientOpt
	Queue       string
	Concurrency int
	RetryBase   time.Duration
	RetryMax    time.Duration
}

// NewAsynqServer returns a server whose retries back off exponentially
// between RetryBase and RetryMax.
func NewAsynqServer(opts ServerOptions, log *logger.Logger) *asynq.Server {
	return asynq.NewServer(opts.Redis, asynq.Config{
		Concurrency: opts.Concurrency,
		Queues:      map[string]int{opts.Queue: 1},
		RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
			delay := retry.Delay(opts.RetryBase, opts.RetryMax, n)
			log.Warn("Notification task failed, retrying",
				"type", task.Type(),
				"attempt", n,
				"delay", delay,
				"error", err,
			)
			return delay
		},
		Logger: asynqLogger{log: log},
	})
}

func NewServeMux(h *ConfirmationHandler) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.Handle(model.TaskBookingConfirmation, h)
	return mux
}

// asynqLogger routes asynq's internal logging into the service logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...any) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) { l.log.Fatal(fmt.Sprint(args...)) }
