package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")

	// ErrUnsupportedKind means a content kind outside text/image/video reached
	// the generation client. It is a programming error, not a user one.
	ErrUnsupportedKind = errors.New("unsupported content kind")

	// Wallet connection errors. All of them are recoverable by the user.
	ErrNoWalletDetected = errors.New("no wallet detected: install a browser wallet extension and try again")
	ErrUserRejected     = errors.New("connection request rejected: approve the connection in your wallet")
	ErrRequestPending   = errors.New("a connection request is already pending: open your wallet to approve it")
	ErrConnectionFailed = errors.New("failed to connect wallet")

	// ErrRegistrationFailed wraps a business failure reported by the IP registry.
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrPersistenceFailed marks storage read/write failures. It is logged,
	// never surfaced to the user.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrNotImplemented is returned by the real-backend path of the mocked clients.
	ErrNotImplemented = errors.New("not implemented")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// RegistrationError carries the registry's failure message.
type RegistrationError struct {
	Message string
}

func (e *RegistrationError) Error() string {
	if e.Message == "" {
		return ErrRegistrationFailed.Error()
	}
	return e.Message
}

func (e *RegistrationError) Unwrap() error { return ErrRegistrationFailed }
