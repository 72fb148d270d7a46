package seed

import (
	"context"
	"errors"
	"fmt"

	bookingsrepo "mentorbook/internal/bookings/repository"
	mentorsrepo "mentorbook/internal/mentors/repository"
	"mentorbook/pkg/config"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"
)

var ErrProduction = errors.New("refusing to seed a production environment without --force")

// Mentors is the fixed set created by Run.
var Mentors = []string{
	"Alice (Python Expert)",
	"Bob (System Design Guru)",
	"Charlie (React Wizard)",
}

type Seeder struct {
	mentors  mentorsrepo.MentorRepository
	bookings bookingsrepo.BookingRepository
	log      *logger.Logger
}

func NewSeeder(mentors mentorsrepo.MentorRepository, bookings bookingsrepo.BookingRepository, log *logger.Logger) *Seeder {
	return &Seeder{
		mentors:  mentors,
		bookings: bookings,
		log:      log,
	}
}

// Run clears bookings and mentors, then creates the fixed mentor set.
// Bookings go first because they reference mentors.
func (s *Seeder) Run(ctx context.Context) ([]*model.Mentor, error) {
	removedBookings, err := s.bookings.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear bookings: %w", err)
	}
	removedMentors, err := s.mentors.DeleteAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear mentors: %w", err)
	}
	s.log.Info("Cleared existing data", "bookings", removedBookings, "mentors", removedMentors)

	created := make([]*model.Mentor, 0, len(Mentors))
	for _, name := range Mentors {
		mentor := &model.Mentor{Name: name}
		if err := s.mentors.Create(ctx, mentor); err != nil {
			return created, fmt.Errorf("failed to create mentor %q: %w", name, err)
		}
		created = append(created, mentor)
	}

	s.log.Info("Seed data created", "mentors", len(created))
	return created, nil
}

// Allowed reports whether seeding may run against cfg's environment.
func Allowed(cfg *config.Config, force bool) error {
	if cfg.IsProduction() && !force {
		return fmt.Errorf("%w (ENVIRONMENT=%s)", ErrProduction, cfg.Environment)
	}
	return nil
}
