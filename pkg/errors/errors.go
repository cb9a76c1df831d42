package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or invalid form/confirmation token
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates a downstream dependency could not be reached
	ErrUnavailable = errors.New("service unavailable")
)

// InvalidInputError marks a request that could not be read
func InvalidInputError(what string, err error) error {
	return fmt.Errorf("%s: %w: %w", what, ErrInvalidInput, err)
}

// UnauthorizedError marks a missing or rejected form token
func UnauthorizedError(err error) error {
	return fmt.Errorf("%w: %w", ErrUnauthorized, err)
}

// UnavailableError marks a dependency failure
func UnavailableError(dependency string, err error) error {
	return fmt.Errorf("%s: %w: %w", dependency, ErrUnavailable, err)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
