package notifications

import "errors"

var (
	// ErrBookingGone means the booking was deleted before its confirmation ran.
	ErrBookingGone = errors.New("booking no longer exists")

	ErrInvalidRecipient = errors.New("invalid recipient address")

	ErrInvalidPayload = errors.New("invalid confirmation payload")
)

// IsPermanent reports whether retrying err cannot succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrBookingGone) ||
		errors.Is(err, ErrInvalidRecipient) ||
		errors.Is(err, ErrInvalidPayload)
}
