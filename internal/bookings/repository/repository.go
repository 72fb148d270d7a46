package repository

import (
	"context"
	"mentorbook/pkg/config"
	"mentorbook/pkg/model"
	"time"
)

type BookingRepository interface {
	// FindExisting returns the booking for mentorID at exactly startTime, or nil.
	FindExisting(ctx context.Context, mentorID int64, startTime time.Time) (*model.Booking, error)
	Insert(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

func New(cfg *config.Config) BookingRepository {
	if cfg.StoreDriver == config.StoreMongo {
		return NewMongoBookingRepository(cfg)
	}
	return NewPostgresBookingRepository(cfg)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
