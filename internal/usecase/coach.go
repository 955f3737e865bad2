package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
)

// Compile-time check
var _ Speaker = (*Coach)(nil)

// Coach is the advice persona. It sees the full history, both channels.
//
// PartnerProfile and PartnerScenario hold the USER-perspective strings, not
// the partner's in-character rewrite: the coach must reason about the user's
// own framing. The field names mirror "the user's partner" and are kept for
// continuity with the conversation's display fields.
type Coach struct {
	ai    adapter.AIServiceAdapter
	model string
	log   *zerolog.Logger

	PartnerProfile  string
	PartnerScenario string
}

func NewCoach(ai adapter.AIServiceAdapter, model string, log *zerolog.Logger) *Coach {
	return &Coach{ai: ai, model: model, log: log}
}

// Respond builds [persona prompt] + full history and returns the completion
// verbatim.
func (c *Coach) Respond(ctx context.Context, history *model.ChatHistory) (string, error) {
	msgs := append(
		[]adapter.Message{{Role: model.RoleSystem, Content: coachSystemPrompt(c.PartnerProfile, c.PartnerScenario)}},
		toAdapterMessages(history.Full())...,
	)
	reply, err := c.ai.Chat(ctx, adapter.ChatRequest{Model: c.model, Messages: msgs})
	if err != nil {
		return "", aiFailure(c.log, "Coach.Respond", err)
	}
	return reply, nil
}
