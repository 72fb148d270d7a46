package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentorbook/pkg/config"
	"mentorbook/pkg/logger"
	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMentors struct {
	nextID int64
	rows   []*model.Mentor
	calls  *[]string
}

func (f *fakeMentors) Create(_ context.Context, m *model.Mentor) error {
	f.nextID++
	m.ID = f.nextID
	f.rows = append(f.rows, m)
	return nil
}

func (f *fakeMentors) FindByID(context.Context, int64) (*model.Mentor, error) { return nil, nil }
func (f *fakeMentors) FindAll(context.Context) ([]*model.Mentor, error)       { return f.rows, nil }
func (f *fakeMentors) Update(context.Context, *model.Mentor) error            { return nil }
func (f *fakeMentors) Delete(context.Context, int64) error                    { return nil }

func (f *fakeMentors) DeleteAll(context.Context) (int64, error) {
	*f.calls = append(*f.calls, "mentors")
	n := int64(len(f.rows))
	f.rows = nil
	return n, nil
}

type fakeBookings struct {
	rows  int64
	err   error
	calls *[]string
}

func (f *fakeBookings) FindExisting(context.Context, int64, time.Time) (*model.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) Insert(context.Context, *model.Booking) error { return nil }
func (f *fakeBookings) FindByID(context.Context, int64) (*model.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) List(context.Context, model.BookingFilter) ([]*model.Booking, error) {
	return nil, nil
}
func (f *fakeBookings) Delete(context.Context, int64) error { return nil }

func (f *fakeBookings) DeleteAll(context.Context) (int64, error) {
	*f.calls = append(*f.calls, "bookings")
	if f.err != nil {
		return 0, f.err
	}
	n := f.rows
	f.rows = 0
	return n, nil
}

func TestRun_Idempotent(t *testing.T) {
	var calls []string
	mentors := &fakeMentors{calls: &calls}
	bookings := &fakeBookings{rows: 4, calls: &calls}
	s := NewSeeder(mentors, bookings, logger.Discard())

	for i := 0; i < 2; i++ {
		created, err := s.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, created, 3)
	}

	names := make([]string, 0, len(mentors.rows))
	for _, m := range mentors.rows {
		names = append(names, m.Name)
	}
	assert.Equal(t, Mentors, names)
	assert.Equal(t, []string{"bookings", "mentors", "bookings", "mentors"}, calls)
}

func TestRun_StopsWhenBookingsCannotBeCleared(t *testing.T) {
	var calls []string
	s := NewSeeder(&fakeMentors{calls: &calls}, &fakeBookings{err: errors.New("locked"), calls: &calls}, logger.Discard())

	_, err := s.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"bookings"}, calls)
}

func TestAllowed(t *testing.T) {
	prod := &config.Config{Environment: config.EnvironmentProduction}
	dev := &config.Config{Environment: config.EnvironmentDevelopment}

	assert.ErrorIs(t, Allowed(prod, false), ErrProduction)
	assert.NoError(t, Allowed(prod, true))
	assert.NoError(t, Allowed(dev, false))
}
