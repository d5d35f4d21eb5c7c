package auth

import (
	"fmt"

	"stunner/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterRequest struct {
	Username string `validate:"required,min=3,max=32"`
	Password string `validate:"required,min=8,max=72"`
	Email    string `validate:"required,email"`
	FullName string `validate:"required,max=128"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRegistration, err)
	}
	return nil
}

type UpdateProfileRequest struct {
	FullName string `validate:"required,max=128"`
	Email    string `validate:"required,email"`
	// Password is optional; when present it is re-hashed and replaced.
	Password string `validate:"omitempty,min=8,max=72"`
}

func ValidateUpdateProfile(req UpdateProfileRequest) error {
	return validate.Struct(req)
}
