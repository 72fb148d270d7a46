package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	bookingserrors "mentorbook/internal/bookings/errors"
	"mentorbook/internal/bookings/repository"
	"mentorbook/internal/bookings/validator"
	"mentorbook/internal/notifications"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/model"

	"golang.org/x/sync/errgroup"
)

const (
	fieldStartTime    = "start_time"
	messageSlotBooked = "is already booked!"
)

// MentorLookup is the part of the mentor directory the booking service needs.
type MentorLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type BookingService interface {
	Create(ctx context.Context, input *model.BookingInput) (*model.Booking, error)
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error)
	Delete(ctx context.Context, id int64) error
	// Wait blocks until every confirmation dispatch started by Create has
	// finished, or ctx ends.
	Wait(ctx context.Context) error
}

type bookingService struct {
	repo       repository.BookingRepository
	mentors    MentorLookup
	validator  *validator.BookingValidator
	dispatcher notifications.Dispatcher
	cfg        *config.Config
	inflight   sync.WaitGroup
}

func NewBookingService(
	repo repository.BookingRepository,
	mentors MentorLookup,
	validator *validator.BookingValidator,
	dispatcher notifications.Dispatcher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		mentors:    mentors,
		validator:  validator,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Create books a slot. A slot collides only with a booking for the same
// mentor at exactly the same instant; neighbouring times are accepted.
func (s *bookingService) Create(ctx context.Context, input *model.BookingInput) (*model.Booking, error) {
	input.StartTime = model.NormalizeStartTime(input.StartTime)

	if err := s.validator.Validate(input); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"mentor_id", input.MentorID,
			"student_email", input.StudentEmail,
			"error", err,
		)
		return nil, err
	}

	var (
		mentorExists bool
		existing     *model.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mentorExists, err = s.mentors.Exists(gctx, input.MentorID)
		return err
	})
	g.Go(func() error {
		var err error
		existing, err = s.repo.FindExisting(gctx, input.MentorID, input.StartTime)
		return err
	})
	if err := g.Wait(); err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		s.cfg.Log.Error("Failed to check booking slot", "mentor_id", input.MentorID, "error", err)
		return nil, apperrors.Internal("Failed to check booking slot", err)
	}

	if !mentorExists {
		return nil, apperrors.NotFoundWithID("Mentor", input.MentorID)
	}
	if existing != nil {
		s.cfg.Log.Info("Booking slot already taken",
			"mentor_id", input.MentorID,
			"start_time", input.StartTime,
			"existing_id", existing.ID,
		)
		return nil, apperrors.FieldError(fieldStartTime, messageSlotBooked)
	}

	booking := &model.Booking{
		MentorID:     input.MentorID,
		StudentEmail: input.StudentEmail,
		StartTime:    input.StartTime,
	}
	if err := s.repo.Insert(ctx, booking); err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrSlotTaken):
			s.cfg.Log.Info("Booking slot taken concurrently", "mentor_id", input.MentorID, "start_time", input.StartTime)
			return nil, apperrors.FieldError(fieldStartTime, messageSlotBooked)
		case errors.Is(err, bookingserrors.ErrMentorNotFound):
			return nil, apperrors.NotFoundWithID("Mentor", input.MentorID)
		}
		s.cfg.Log.Error("Failed to create booking", "mentor_id", input.MentorID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"mentor_id", booking.MentorID,
		"start_time", booking.StartTime,
	)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.dispatch(context.WithoutCancel(ctx), booking.ID)
	}()

	return booking, nil
}

// dispatch runs detached from the request; its outcome is only logged.
func (s *bookingService) dispatch(ctx context.Context, bookingID int64) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	if err := s.dispatcher.Dispatch(ctx, bookingID); err != nil {
		s.cfg.Log.Warn("Failed to dispatch booking confirmation",
			"booking_id", bookingID,
			"idempotency_key", model.ConfirmationKey(bookingID),
			"error", err,
		)
		return
	}
	s.cfg.Log.Debug("Booking confirmation dispatched", "booking_id", bookingID)
}

func (s *bookingService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *bookingService) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Invalid booking ID")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to get booking")
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"mentor_id", filter.MentorID,
			"student_email", filter.StudentEmail,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to list bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.InvalidInput("Invalid booking ID")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) translate(err error, id int64, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput(fmt.Sprintf("Invalid booking ID: %d", id))
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
