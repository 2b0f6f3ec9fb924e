package mailgun

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidArgument indicates a missing or empty required argument
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthorized indicates authentication failure
	ErrUnauthorized = errors.New("unauthorized: invalid API key")
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
)

// ArgumentError is returned when a required argument is missing or empty.
// It is raised before any network activity takes place.
type ArgumentError struct {
	Argument string
	Reason   string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid argument %q", e.Argument)
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

// Is matches ErrInvalidArgument
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ValidationError reports a message that violates a composition rule
// (missing sender, too many tags, oversized payload, ...).
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message field %s: %s", e.Field, e.Message)
}

// Is matches ErrInvalidArgument
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// APIError represents a failed Mailgun API call
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("mailgun API error: %s", e.Message)
	}
	return fmt.Sprintf("mailgun API error: status %d: %s", e.StatusCode, e.Message)
}

// Is maps status codes onto the package sentinels
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 401:
		return target == ErrUnauthorized
	case 404:
		return target == ErrNotFound
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

func requireArg(name, value string) error {
	if value == "" {
		return &ArgumentError{Argument: name, Reason: "must not be empty"}
	}
	return nil
}

func requireArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := requireArg(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
