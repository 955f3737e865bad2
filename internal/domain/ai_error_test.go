//go:build !integration

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAIServiceError_MatchesSentinel(t *testing.T) {
	cause := errors.New("429 too many requests")
	err := NewAIServiceError("Partner.Respond", cause)

	if !errors.Is(err, ErrAIService) {
		t.Error("AIServiceError should match ErrAIService")
	}
	if !errors.Is(err, cause) {
		t.Error("AIServiceError should unwrap to its cause")
	}

	wrapped := fmt.Errorf("handle turn: %w", err)
	if !errors.Is(wrapped, ErrAIService) {
		t.Error("sentinel match should survive further wrapping")
	}

	var asErr *AIServiceError
	if !errors.As(wrapped, &asErr) || asErr.Op != "Partner.Respond" {
		t.Errorf("errors.As failed or lost Op: %+v", asErr)
	}
}
