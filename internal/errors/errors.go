package errors

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the authorization flow
var (
	// Flow start errors
	ErrConfiguration = errors.New("configuration error")

	// Callback validation errors
	ErrStateMismatch = errors.New("invalid or missing state parameter")
	ErrMissingCode   = errors.New("authorization code not found in callback")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionStore    = errors.New("session store failure")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
