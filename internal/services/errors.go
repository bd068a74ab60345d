package services

import (
	"errors"
	"fmt"

	"smartclinic-server/internal/utils"
)

var (
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = utils.ErrTokenExpired
	ErrTokenInvalid       = utils.ErrTokenInvalid
	ErrUnknownAccount     = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrChatService        = errors.New("chat service error")
)

// notFound wraps ErrNotFound with the resource name, e.g. "Patient not found".
func notFound(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// validationError wraps ErrValidation with the offending field details.
func validationError(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationError(err))
}

func validateInput(input interface{}) error {
	if err := utils.Validate(input); err != nil {
		return validationError(err)
	}
	return nil
}
