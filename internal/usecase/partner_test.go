//go:build !integration

package usecase_test

import (
	"context"
	"testing"

	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

func TestPartner_ReactWithoutPartnerMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("initializes the default state without calling the provider", func(t *testing.T) {
		ai := &scriptedAI{}
		p := usecase.NewPartner(ai, "chat-model", "utility-model", newTestLogger())

		state, err := p.React(ctx, model.NewChatHistory())
		if err != nil {
			t.Fatalf("React: %v", err)
		}
		if state != usecase.DefaultEmotionalState {
			t.Errorf("state = %q, want the default", state)
		}
		if p.EmotionalState != usecase.DefaultEmotionalState {
			t.Errorf("EmotionalState = %q, want the default", p.EmotionalState)
		}
		if ai.callCount() != 0 {
			t.Errorf("provider calls = %d, want 0 before any partner message", ai.callCount())
		}
	})

	t.Run("keeps an existing state when only coach messages exist", func(t *testing.T) {
		ai := &scriptedAI{}
		p := usecase.NewPartner(ai, "chat-model", "utility-model", newTestLogger())
		p.EmotionalState = "wary"

		history := model.NewChatHistory()
		history.Add(model.RoleUser, "@coach what should I say first?", model.ChannelCoach)

		state, err := p.React(ctx, history)
		if err != nil {
			t.Fatalf("React: %v", err)
		}
		if state != "wary" {
			t.Errorf("state = %q, want the prior state preserved", state)
		}
		if ai.callCount() != 0 {
			t.Errorf("provider calls = %d, want 0 for an empty partner view", ai.callCount())
		}
	})
}
