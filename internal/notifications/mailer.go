package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mentorbook/pkg/logger"
	"mentorbook/pkg/retry"

	"github.com/mcnijman/go-emailaddress"
)

type Confirmation struct {
	BookingID  int64
	To         string
	MentorName string
	StartTime  time.Time
}

type Mailer interface {
	Send(ctx context.Context, c Confirmation) error
}

// LogMailer pretends to deliver mail: it waits delay and logs the message.
type LogMailer struct {
	delay time.Duration
	log   *logger.Logger
}

func NewLogMailer(delay time.Duration, log *logger.Logger) *LogMailer {
	return &LogMailer{delay: delay, log: log}
}

func (m *LogMailer) Send(ctx context.Context, c Confirmation) error {
	addr, err := emailaddress.Parse(strings.TrimSpace(c.To))
	if err != nil {
		m.log.Warn("Rejecting confirmation recipient", "booking_id", c.BookingID, "to", c.To, "error", err)
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, c.To)
	}

	if err := retry.Sleep(ctx, m.delay); err != nil {
		return fmt.Errorf("send interrupted: %w", err)
	}

	m.log.Info(fmt.Sprintf("Email sent to %s for booking with %s at %s",
		addr.String(), c.MentorName, c.StartTime.UTC().Format(time.RFC3339)),
		"booking_id", c.BookingID,
	)
	return nil
}
