package notifications

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"mentorbook/pkg/kafka"
	"mentorbook/pkg/model"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaDispatcher struct {
	publisher Publisher
	source    string
}

func NewKafkaDispatcher(publisher Publisher, source string) *KafkaDispatcher {
	return &KafkaDispatcher{
		publisher: publisher,
		source:    source,
	}
}

// Dispatch publishes the confirmation keyed by booking id, so redeliveries
// of one booking land on the same partition.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, bookingID int64) error {
	payload := model.BookingConfirmation{BookingID: bookingID}

	msg, err := kafka.NewMessage().
		WithKey(strconv.FormatInt(bookingID, 10)).
		WithValue(payload).
		WithEventType(model.EventBookingConfirmation).
		WithIdempotencyKey(payload.IdempotencyKey()).
		WithSource(d.source).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build confirmation message: %w", err)
	}

	if err := d.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish confirmation for booking %d: %w", bookingID, err)
	}
	return nil
}

// KafkaHandler adapts a ConfirmationHandler to the consumer. Each message
// runs under timeout; permanent failures skip the consumer's retries.
func KafkaHandler(h *ConfirmationHandler, timeout time.Duration) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if t := msg.GetEventType(); t != "" && t != model.EventBookingConfirmation {
			return kafka.NewPermanentError("unexpected event type "+t, ErrInvalidPayload)
		}

		var payload model.BookingConfirmation
		if err := msg.DecodeValue(&payload); err != nil || payload.BookingID <= 0 {
			return kafka.NewPermanentError("undecodable confirmation", ErrInvalidPayload)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := h.Handle(ctx, payload.BookingID); err != nil {
			if IsPermanent(err) {
				return kafka.NewPermanentError("confirmation failed permanently", err)
			}
			return kafka.NewTransientError("confirmation failed", err)
		}
		return nil
	}
}
