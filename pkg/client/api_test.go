package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mentorbook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIClient_CreateBooking(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &received)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":4,"mentor_id":1,"student_email":"s@example.com","start_time":"2026-05-04T15:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL+"/", time.Second)
	booking, err := c.CreateBooking(context.Background(), 1, "s@example.com", time.Date(2026, 5, 4, 17, 0, 0, 0, time.FixedZone("", 7200)))
	require.NoError(t, err)

	assert.Equal(t, int64(4), booking.ID)
	assert.Equal(t, "2026-05-04T15:00:00Z", received["start_time"])
	assert.Equal(t, float64(1), received["mentor_id"])
}

func TestAPIClient_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"start_time":["is already booked!"]}`))
	}))
	defer srv.Close()

	_, err := NewAPIClient(srv.URL, time.Second).CreateBooking(context.Background(), 1, "s@example.com", time.Now())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "start_time is already booked!", apiErr.Message)
}

func TestAPIClient_ListBookingsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("mentor_id"))
		assert.Equal(t, "a+b@example.com", r.URL.Query().Get("student_email"))
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	}))
	defer srv.Close()

	bookings, err := NewAPIClient(srv.URL, time.Second).ListBookings(context.Background(), model.BookingFilter{MentorID: 2, StudentEmail: "a+b@example.com"})
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error envelope", `{"error":"Mentor not found","details":{"id":3}}`, "Mentor not found"},
		{"field map", `{"name":["can't be blank"],"mentor_id":["can't be blank"]}`, "mentor_id can't be blank; name can't be blank"},
		{"plain text", "boom\n", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{Response: &http.Response{StatusCode: http.StatusBadRequest}, Body: []byte(tt.body)}
			assert.Equal(t, tt.want, GetErrorMessage(resp))
		})
	}
}
