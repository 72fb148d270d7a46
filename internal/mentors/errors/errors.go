package errors

import "errors"

var (
	ErrNotFound = errors.New("mentor not found")

	ErrInvalidID = errors.New("invalid mentor ID")

	// ErrHasBookings is returned when deleting a mentor that is still referenced by bookings.
	ErrHasBookings = errors.New("mentor has bookings")
)
