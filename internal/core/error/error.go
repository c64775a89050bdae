package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// ReasoningErrorMessage describes failures of the external reasoning service.
	ReasoningErrorMessage = "reasoning service failed"
	// RetryPromptMessage is the only failure text ever shown to an applicant.
	RetryPromptMessage = "I'm having trouble processing that. Could you try again?"
)

// Sentinel errors for the underwriting core. Callers match them with errors.Is.
var (
	// ErrTransient marks an upstream rate-limit/quota failure worth retrying.
	ErrTransient = errors.New("transient upstream error")
	// ErrRetriesExhausted is returned once the retry budget for a transient
	// failure is spent. Fatal for the turn.
	ErrRetriesExhausted = errors.New("retry budget exhausted")
	// ErrMalformedResponse marks a reasoning response that failed schema
	// validation. Never retried.
	ErrMalformedResponse = errors.New("malformed reasoning response")
	// ErrIncompleteProfile is returned when a premium is requested before all
	// rating fields are known. Internal only, never shown to the applicant.
	ErrIncompleteProfile = errors.New("incomplete rating profile")
	// ErrUnknownRateKey marks a rate-table lookup with an unrecognized enum
	// value. A configuration error, intended to fail loudly.
	ErrUnknownRateKey = errors.New("unknown rate table key")
	// ErrBusy rejects a submission while another turn is still in flight.
	ErrBusy = errors.New("turn already in flight")
	// ErrEmptyInput rejects blank user input before any call is dispatched.
	ErrEmptyInput = errors.New("empty user input")
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapRedis wraps a Redis error with a consistent status code and message.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: RedisErrorMessage,
	}
}

// WrapReasoning wraps a fatal reasoning-service error so upstream callers see
// one consistent status and safe message regardless of the root cause.
func WrapReasoning(err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Err:     err,
		Status:  http.StatusBadGateway,
		Message: ReasoningErrorMessage,
	}
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
