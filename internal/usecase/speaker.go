package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
)

// Speaker is a persona that can answer the user given a view of the history.
// Respond suspends on a network call to the completion provider and fails
// with an AI-service error; it never substitutes fallback text. Persona
// specific operations (React, the rewrite setters) live on the concrete
// types and are reached through narrowed references.
type Speaker interface {
	Respond(ctx context.Context, history *model.ChatHistory) (string, error)
}

// toAdapterMessages projects history entries to provider messages, dropping
// the channel tag.
func toAdapterMessages(msgs []model.ChatMessage) []adapter.Message {
	out := make([]adapter.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, adapter.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// aiFailure logs the failed operation with the underlying error's type and
// message, then wraps it so callers see a single uniform AI-service failure.
func aiFailure(log *zerolog.Logger, op string, err error) error {
	log.Error().
		Str("op", op).
		Str("cause_type", fmt.Sprintf("%T", err)).
		Err(err).
		Msg("critical ai service error")
	return domain.NewAIServiceError(op, err)
}

func tempPtr(v float64) *float64 { return &v }
