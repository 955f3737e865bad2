package domain

import (
	"errors"
	"fmt"
)

// ErrAIService is the sentinel for every failed LLM completion call,
// regardless of the underlying cause (network, auth, rate limit, quota,
// malformed response). Callers match it with errors.Is.
var ErrAIService = errors.New("ai service failure")

// User-safe texts shown at the transport boundary. Provider error detail is
// never surfaced to end users; these two messages let operators distinguish
// AI outages from everything else in support reports.
const (
	AIServiceUserMessage = "We're experiencing technical difficulties with our AI service. " +
		"Please try again in a moment. If the problem persists, please contact support."
	UnexpectedUserMessage = "Something unexpected happened. Please try your message again. " +
		"If the problem continues, please contact support."
)

// AIServiceError records which operation was talking to the model when the
// call failed. It wraps the provider error for logs and matches ErrAIService.
type AIServiceError struct {
	Op  string // e.g. "Partner.Respond"
	Err error
}

func NewAIServiceError(op string, err error) *AIServiceError {
	return &AIServiceError{Op: op, Err: err}
}

func (e *AIServiceError) Error() string {
	return fmt.Sprintf("ai service failure in %s: %v", e.Op, e.Err)
}

func (e *AIServiceError) Unwrap() error { return e.Err }

func (e *AIServiceError) Is(target error) bool { return target == ErrAIService }
