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
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "record not found"
	// InvalidAgentHintMessage describes an unknown agent_id supplied by the caller.
	InvalidAgentHintMessage = "unknown agent id"
)

// Engine failure modes. Only ErrInvalidAgentHint is ever surfaced to the
// caller as an error; every other mode is recovered locally by a documented
// fallback and must not fail the request.
var (
	// ErrClassificationUnavailable: zero-shot service down; recovered via
	// keyword fallback.
	ErrClassificationUnavailable = errors.New("classification service unavailable")
	// ErrRetrievalUnavailable: embedding service down; recovered via keyword
	// search.
	ErrRetrievalUnavailable = errors.New("embedding service unavailable")
	// ErrGenerationTimeout: the generation call exceeded the agent's wall-clock
	// budget.
	ErrGenerationTimeout = errors.New("generation timed out")
	// ErrGenerationService: the generation service failed or returned garbage.
	ErrGenerationService = errors.New("generation service error")
	// ErrAllSourcesExhausted: every fallback source failed validation; the
	// caller still receives the fixed honest response, not this error.
	ErrAllSourcesExhausted = errors.New("all response sources exhausted")
	// ErrInvalidAgentHint: caller supplied an agent_id that is not configured.
	ErrInvalidAgentHint = errors.New("invalid agent hint")
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

// Wrap tags a cause with one of the failure-mode sentinels so callers can
// branch on errors.Is without losing the original error.
func Wrap(cause, sentinel error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// InvalidHint wraps ErrInvalidAgentHint with the offending id. This is the one
// engine failure reported to the caller as a client-input error.
func InvalidHint(agentID string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %q", ErrInvalidAgentHint, agentID),
		Status:  http.StatusBadRequest,
		Message: InvalidAgentHintMessage,
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
