package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Booking struct {
	ID           int64     `json:"id" bson:"_id"`
	MentorID     int64     `json:"mentor_id" bson:"mentor_id"`
	StudentEmail string    `json:"student_email" bson:"student_email"`
	StartTime    time.Time `json:"start_time" bson:"start_time"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingInput is what the booking service needs to create a booking.
// A zero StartTime means the caller did not supply a usable one.
type BookingInput struct {
	MentorID     int64     `json:"mentor_id" validate:"required"`
	StudentEmail string    `json:"student_email"`
	StartTime    time.Time `json:"start_time" validate:"required"`
}

// BookingRequest is the POST /bookings body as sent by clients.
type BookingRequest struct {
	MentorID     FlexID `json:"mentor_id"`
	StudentEmail string `json:"student_email"`
	StartTime    string `json:"start_time"`
}

func (r *BookingRequest) Input() *BookingInput {
	return &BookingInput{
		MentorID:     int64(r.MentorID),
		StudentEmail: strings.TrimSpace(r.StudentEmail),
		StartTime:    ParseStartTime(r.StartTime),
	}
}

type BookingFilter struct {
	MentorID     int64
	StudentEmail string
}

func (f BookingFilter) IsEmpty() bool {
	return f.MentorID == 0 && f.StudentEmail == ""
}

// FlexID decodes an identifier sent either as a JSON number or as a numeric
// string (HTML form values arrive as strings). null and "" decode to 0.
type FlexID int64

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid identifier %q", raw)
	}
	*id = FlexID(n)
	return nil
}

var startTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseStartTime accepts RFC 3339 or a zone-less local datetime, which is
// read as UTC. It returns the zero time when s is empty or unparsable.
func ParseStartTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range startTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeStartTime(t)
		}
	}
	return time.Time{}
}

// NormalizeStartTime puts t in the form the stores compare on.
func NormalizeStartTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}
