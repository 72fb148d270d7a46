package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "mentorbook/internal/bookings/errors"
	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
)

type BookingLoader interface {
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
}

type MentorLoader interface {
	FindByID(ctx context.Context, id int64) (*model.Mentor, error)
}

// DefaultClaimLease bounds how long an unfinished attempt holds a booking's
// confirmation key.
const DefaultClaimLease = time.Minute

// ConfirmationHandler sends one confirmation per booking. It loads the
// booking when it runs, not when the task was queued.
type ConfirmationHandler struct {
	bookings BookingLoader
	mentors  MentorLoader
	ledger   Ledger
	mailer   Mailer
	lease    time.Duration
	log      *logger.Logger
}

func NewConfirmationHandler(bookings BookingLoader, mentors MentorLoader, ledger Ledger, mailer Mailer, log *logger.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		bookings: bookings,
		mentors:  mentors,
		ledger:   ledger,
		mailer:   mailer,
		lease:    DefaultClaimLease,
		log:      log,
	}
}

// WithLease sets how long an attempt may hold a claim before another
// delivery can take over. It should exceed the per-attempt timeout.
func (h *ConfirmationHandler) WithLease(lease time.Duration) *ConfirmationHandler {
	if lease > 0 {
		h.lease = lease
	}
	return h
}

func (h *ConfirmationHandler) Handle(ctx context.Context, bookingID int64) error {
	key := model.ConfirmationKey(bookingID)

	claimed, err := h.ledger.Claim(ctx, key, h.lease)
	if err != nil {
		return err
	}
	if !claimed {
		h.log.Info("Confirmation already sent, skipping", "booking_id", bookingID, "idempotency_key", key)
		return nil
	}

	// released on every path that did not send, panics included
	committed := false
	defer func() {
		if committed {
			return
		}
		if err := h.ledger.Release(context.WithoutCancel(ctx), key); err != nil {
			h.log.Error("Failed to release confirmation claim", "idempotency_key", key, "error", err)
		}
	}()

	if err := h.send(ctx, bookingID); err != nil {
		if errors.Is(err, ErrBookingGone) {
			h.log.Warn("Booking vanished before confirmation", "booking_id", bookingID)
		}
		return err
	}

	committed = true
	if err := h.ledger.Commit(context.WithoutCancel(ctx), key); err != nil {
		h.log.Error("Failed to commit confirmation claim", "idempotency_key", key, "error", err)
	}
	return nil
}

func (h *ConfirmationHandler) send(ctx context.Context, bookingID int64) error {
	booking, err := h.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrBookingGone, bookingID)
		}
		return fmt.Errorf("failed to load booking %d: %w", bookingID, err)
	}

	mentor, err := h.mentors.FindByID(ctx, booking.MentorID)
	if err != nil {
		if errors.Is(err, mentorserrors.ErrNotFound) {
			return fmt.Errorf("%w: mentor %d of booking %d", ErrBookingGone, booking.MentorID, bookingID)
		}
		return fmt.Errorf("failed to load mentor %d: %w", booking.MentorID, err)
	}

	return h.mailer.Send(ctx, Confirmation{
		BookingID:  booking.ID,
		To:         booking.StudentEmail,
		MentorName: mentor.Name,
		StartTime:  booking.StartTime,
	})
}
