package model

import "time"

type Mentor struct {
	ID        int64     `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// MentorInput is the writable part of a mentor, used for create and update.
type MentorInput struct {
	Name string `json:"name" validate:"required,max=100"`
}
