package validator

import (
	"mentorbook/pkg/model"
	"mentorbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type MentorValidator struct {
	validate *validator.Validate
}

func NewMentorValidator() *MentorValidator {
	return &MentorValidator{
		validate: validation.New(),
	}
}

// Validate returns a field-keyed validation error, or nil.
func (v *MentorValidator) Validate(input *model.MentorInput) error {
	return validation.Struct(v.validate, input)
}
