package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every schema invariant violation raised at the data
// model boundary; the message is surfaced verbatim to the caller as a 400.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: please enter a valid email", ErrValidation)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 7 {
		return fmt.Errorf("%w: password must be at least 7 characters", ErrValidation)
	}
	if strings.Contains(strings.ToLower(password), "password") {
		return fmt.Errorf("%w: password must not contain %q", ErrValidation, "password")
	}
	return nil
}

func validateAge(age int) error {
	if age < 0 {
		return fmt.Errorf("%w: age must be a positive number", ErrValidation)
	}
	return nil
}
