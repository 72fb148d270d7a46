package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mentorbook/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mentorctl dev")
}

func TestBookingsList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("mentor_id"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 9, "mentor_id": 4, "student_email": "a@b.co", "start_time": "2026-01-02T10:00:00Z"},
		})
	}))
	defer srv.Close()

	out, err := run(t, "bookings", "list", "--api-url", srv.URL, "--mentor-id", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "a@b.co")
	assert.Contains(t, out, "2026-01-02T10:00:00Z")
}

func TestBookingsCreateRejectsBadStart(t *testing.T) {
	_, err := run(t, "bookings", "create", "--api-url", "http://127.0.0.1:1", "--mentor-id", "1", "--start", "tomorrow")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "RFC3339"))
}

func TestBookingsCreateReportsConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"start_time":["is already booked!"]}`))
	}))
	defer srv.Close()

	_, err := run(t, "bookings", "create", "--api-url", srv.URL, "--mentor-id", "1", "--start", "2026-01-02T10:00:00Z")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is already booked!")
}

func TestSeedRefusesProductionWithoutForce(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := run(t, "seed")
	require.Error(t, err)
	assert.ErrorIs(t, err, seed.ErrProduction)
}
