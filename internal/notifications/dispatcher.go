package notifications

import (
	"context"
)

// Dispatcher hands a booking confirmation to the asynchronous worker.
// Implementations return once the work is durably queued.
type Dispatcher interface {
	Dispatch(ctx context.Context, bookingID int64) error
}

// DispatcherFunc adapts a plain function to Dispatcher.
type DispatcherFunc func(ctx context.Context, bookingID int64) error

func (f DispatcherFunc) Dispatch(ctx context.Context, bookingID int64) error {
	return f(ctx, bookingID)
}
