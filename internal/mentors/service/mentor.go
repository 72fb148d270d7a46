package service

import (
	"context"
	"errors"

	mentorserrors "mentorbook/internal/mentors/errors"
	"mentorbook/internal/mentors/repository"
	"mentorbook/internal/mentors/validator"
	"mentorbook/pkg/config"
	apperrors "mentorbook/pkg/errors"
	"mentorbook/pkg/model"
	"mentorbook/pkg/sanitizer"
)

type MentorService interface {
	Create(ctx context.Context, input *model.MentorInput) (*model.Mentor, error)
	GetByID(ctx context.Context, id int64) (*model.Mentor, error)
	GetAll(ctx context.Context) ([]*model.Mentor, error)
	Update(ctx context.Context, id int64, input *model.MentorInput) (*model.Mentor, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type mentorService struct {
	repo      repository.MentorRepository
	validator *validator.MentorValidator
	cfg       *config.Config
}

func NewMentorService(
	repo repository.MentorRepository,
	validator *validator.MentorValidator,
	cfg *config.Config,
) MentorService {
	return &mentorService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *mentorService) Create(ctx context.Context, input *model.MentorInput) (*model.Mentor, error) {
	input.Name = sanitizer.TrimAndNormalize(input.Name)
	if err := s.validator.Validate(input); err != nil {
		s.cfg.Log.Warn("Mentor validation failed", "name", input.Name, "error", err)
		return nil, err
	}

	mentor := &model.Mentor{Name: input.Name}
	if err := s.repo.Create(ctx, mentor); err != nil {
		s.cfg.Log.Error("Failed to create mentor", "name", input.Name, "error", err)
		return nil, apperrors.Internal("Failed to create mentor", err)
	}

	s.cfg.Log.Info("Mentor created successfully", "id", mentor.ID, "name", mentor.Name)
	return mentor, nil
}

func (s *mentorService) GetByID(ctx context.Context, id int64) (*model.Mentor, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Invalid mentor ID")
	}

	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "Failed to get mentor")
	}
	return mentor, nil
}

func (s *mentorService) GetAll(ctx context.Context) ([]*model.Mentor, error) {
	mentors, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list mentors", "error", err)
		return nil, apperrors.Internal("Failed to list mentors", err)
	}
	return mentors, nil
}

func (s *mentorService) Update(ctx context.Context, id int64, input *model.MentorInput) (*model.Mentor, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Invalid mentor ID")
	}

	input.Name = sanitizer.TrimAndNormalize(input.Name)
	if err := s.validator.Validate(input); err != nil {
		s.cfg.Log.Warn("Mentor validation failed", "id", id, "name", input.Name, "error", err)
		return nil, err
	}

	mentor := &model.Mentor{ID: id, Name: input.Name}
	if err := s.repo.Update(ctx, mentor); err != nil {
		return nil, s.translate(err, id, "Failed to update mentor")
	}

	s.cfg.Log.Info("Mentor updated successfully", "id", id, "name", mentor.Name)
	return mentor, nil
}

func (s *mentorService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.InvalidInput("Invalid mentor ID")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "Failed to delete mentor")
	}

	s.cfg.Log.Info("Mentor deleted successfully", "id", id)
	return nil
}

// Exists reports whether a mentor with id is present. Lookup failures other
// than not-found are returned as errors.
func (s *mentorService) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	_, err := s.repo.FindByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mentorserrors.ErrNotFound) {
		return false, nil
	}
	s.cfg.Log.Error("Failed to check mentor existence", "id", id, "error", err)
	return false, apperrors.Internal("Failed to look up mentor", err)
}

func (s *mentorService) translate(err error, id int64, message string) error {
	switch {
	case errors.Is(err, mentorserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Mentor", id)
	case errors.Is(err, mentorserrors.ErrHasBookings):
		return apperrors.Conflict("Mentor has bookings and cannot be deleted")
	case errors.Is(err, mentorserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid mentor ID")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}
