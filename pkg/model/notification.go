package model

import "fmt"

const (
	EventBookingConfirmation = "booking.confirmation"
	TaskBookingConfirmation  = "booking:confirmation"
)

// BookingConfirmation is the payload of a confirmation task. It only carries
// the id: the worker loads the booking when it runs.
type BookingConfirmation struct {
	BookingID int64 `json:"booking_id"`
}

func (c BookingConfirmation) IdempotencyKey() string {
	return ConfirmationKey(c.BookingID)
}

func ConfirmationKey(bookingID int64) string {
	return fmt.Sprintf("booking-confirmation:%d", bookingID)
}
