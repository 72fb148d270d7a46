package validator

import (
	"mentorbook/pkg/model"
	"mentorbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validation.New(),
	}
}

// Validate checks presence only. Student emails are accepted as given.
func (v *BookingValidator) Validate(input *model.BookingInput) error {
	return validation.Struct(v.validate, input)
}
