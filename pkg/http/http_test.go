package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "mentorbook/pkg/errors"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingBody struct {
	MentorID     int64  `json:"mentor_id"`
	StudentEmail string `json:"student_email"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    bookingBody
		wantErr bool
	}{
		{"bare", `{"mentor_id":1,"student_email":"a@x.com"}`, bookingBody{1, "a@x.com"}, false},
		{"enveloped", `{"booking":{"mentor_id":2,"student_email":"b@x.com"}}`, bookingBody{2, "b@x.com"}, false},
		{"other key is not unwrapped", `{"mentor_id":3}`, bookingBody{MentorID: 3}, false},
		{"empty body", ``, bookingBody{}, true},
		{"malformed", `{"mentor_id":`, bookingBody{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.body))
			var got bookingBody

			err := DecodeJSON(req, "booking", &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteError_FieldMap(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, apperrors.FieldError("start_time", "is already booked!"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"start_time":["is already booked!"]}`, rec.Body.String())
}

func TestWriteError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, apperrors.NotFoundWithID("Mentor", int64(999)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Mentor not found","details":{"resource":"Mentor","id":999}}`, rec.Body.String())
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestWriteCreated_BareBody(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteCreated(rec, map[string]any{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}

func TestParseID(t *testing.T) {
	id, err := ParseID(httprouter.Params{{Key: "id", Value: "12"}}, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "abc", "0", "-4"} {
		_, err := ParseID(httprouter.Params{{Key: "id", Value: bad}}, "id")
		assert.Error(t, err, bad)
	}
}

func TestQueryInt64(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bookings?mentor_id=5", nil)
	v, err := QueryInt64(req, "mentor_id")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	req = httptest.NewRequest(http.MethodGet, "/bookings", nil)
	v, err = QueryInt64(req, "mentor_id")
	require.NoError(t, err)
	assert.Zero(t, v)

	req = httptest.NewRequest(http.MethodGet, "/bookings?mentor_id=x", nil)
	_, err = QueryInt64(req, "mentor_id")
	assert.Error(t, err)
}
