package repository

import (
	"context"
	"mentorbook/pkg/config"
	"mentorbook/pkg/model"
	"time"
)

type MentorRepository interface {
	Create(ctx context.Context, mentor *model.Mentor) error
	FindByID(ctx context.Context, id int64) (*model.Mentor, error)
	FindAll(ctx context.Context) ([]*model.Mentor, error)
	Update(ctx context.Context, mentor *model.Mentor) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// New returns the repository for the configured store.
func New(cfg *config.Config) MentorRepository {
	if cfg.StoreDriver == config.StoreMongo {
		return NewMongoMentorRepository(cfg)
	}
	return NewPostgresMentorRepository(cfg)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
