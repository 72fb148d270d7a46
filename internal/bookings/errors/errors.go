package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID")

	// ErrSlotTaken is the storage-level uniqueness violation on (mentor_id, start_time).
	ErrSlotTaken = errors.New("booking slot already taken")

	ErrMentorNotFound = errors.New("referenced mentor does not exist")
)
