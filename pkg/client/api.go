package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mentorbook/pkg/model"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

// APIClient talks to the mentorbook REST API.
type APIClient struct {
	http *HttpClient
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{http: NewHttpClient(baseURL, timeout)}
}

func (c *APIClient) HTTP() *HttpClient {
	return c.http
}

func (c *APIClient) ListMentors(ctx context.Context) ([]model.Mentor, error) {
	var mentors []model.Mentor
	if err := c.call(ctx, http.MethodGet, "/mentors", nil, http.StatusOK, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (c *APIClient) CreateMentor(ctx context.Context, name string) (*model.Mentor, error) {
	var mentor model.Mentor
	body := model.MentorInput{Name: name}
	if err := c.call(ctx, http.MethodPost, "/mentors", body, http.StatusCreated, &mentor); err != nil {
		return nil, err
	}
	return &mentor, nil
}

func (c *APIClient) ListBookings(ctx context.Context, filter model.BookingFilter) ([]model.Booking, error) {
	query := url.Values{}
	if filter.MentorID > 0 {
		query.Set("mentor_id", strconv.FormatInt(filter.MentorID, 10))
	}
	if filter.StudentEmail != "" {
		query.Set("student_email", filter.StudentEmail)
	}
	path := "/bookings"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var bookings []model.Booking
	if err := c.call(ctx, http.MethodGet, path, nil, http.StatusOK, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *APIClient) CreateBooking(ctx context.Context, mentorID int64, studentEmail string, startTime time.Time) (*model.Booking, error) {
	body := map[string]any{
		"mentor_id":     mentorID,
		"student_email": studentEmail,
		"start_time":    startTime.UTC().Format(time.RFC3339Nano),
	}

	var booking model.Booking
	if err := c.call(ctx, http.MethodPost, "/bookings", body, http.StatusCreated, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *APIClient) call(ctx context.Context, method, path string, body any, want int, out any) error {
	resp, err := c.http.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
