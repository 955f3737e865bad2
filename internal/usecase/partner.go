package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
)

// Compile-time check
var _ Speaker = (*Partner)(nil)

// Partner is the roleplay persona. It sees only PARTNER-tagged messages and
// carries partner-perspective state: Profile and Scenario are LLM rewrites of
// the user's input, EmotionalState is a free-text label refreshed on every
// partner-directed turn.
//
// Replies go through chatModel; the short rewrite/react calls go through the
// cheaper utilityModel.
type Partner struct {
	ai           adapter.AIServiceAdapter
	chatModel    string
	utilityModel string
	log          *zerolog.Logger

	Profile        string
	Scenario       string
	EmotionalState string
}

func NewPartner(ai adapter.AIServiceAdapter, chatModel, utilityModel string, log *zerolog.Logger) *Partner {
	return &Partner{ai: ai, chatModel: chatModel, utilityModel: utilityModel, log: log}
}

// Respond builds [persona prompt] + partner view and returns the completion
// verbatim.
func (p *Partner) Respond(ctx context.Context, history *model.ChatHistory) (string, error) {
	state := p.EmotionalState
	if state == "" {
		state = DefaultEmotionalState
	}
	msgs := append(
		[]adapter.Message{{Role: model.RoleSystem, Content: partnerSystemPrompt(p.Profile, p.Scenario, state)}},
		toAdapterMessages(history.PartnerView())...,
	)
	reply, err := p.ai.Chat(ctx, adapter.ChatRequest{Model: p.chatModel, Messages: msgs})
	if err != nil {
		return "", aiFailure(p.log, "Partner.Respond", err)
	}
	return reply, nil
}

// React inspects the latest partner-view message and refreshes EmotionalState
// with a brief label from a separate short completion call. With no partner
// messages yet it initializes the default state without a network call.
//
// React is on the critical path to Respond: a failed call raises and leaves
// EmotionalState untouched rather than continuing with a stale read.
func (p *Partner) React(ctx context.Context, history *model.ChatHistory) (string, error) {
	partnerMsgs := history.PartnerView()
	if len(partnerMsgs) == 0 {
		if p.EmotionalState == "" {
			p.EmotionalState = DefaultEmotionalState
		}
		return p.EmotionalState, nil
	}

	latest := partnerMsgs[len(partnerMsgs)-1].Content
	current := p.EmotionalState
	if current == "" {
		current = DefaultEmotionalState
	}

	reply, err := p.ai.Chat(ctx, adapter.ChatRequest{
		Model: p.utilityModel,
		Messages: []adapter.Message{
			{Role: model.RoleSystem, Content: reactPrompt(p.Profile, p.Scenario, current, latest)},
			{Role: model.RoleUser, Content: latest},
		},
		Temperature: tempPtr(0.7),
		MaxTokens:   50,
	})
	if err != nil {
		return "", aiFailure(p.log, "Partner.React", err)
	}
	p.EmotionalState = strings.TrimSpace(reply)
	return p.EmotionalState, nil
}

// SetProfileFromUserPerspective rewrites a user-perspective relationship
// description ("my wife Maria...") into the partner's first person ("you
// are...") and stores it as Profile. The return value is the original
// user-perspective text; callers keep that as the canonical string for
// anything user-facing.
func (p *Partner) SetProfileFromUserPerspective(ctx context.Context, userProfile string) (string, error) {
	userProfile = strings.TrimSpace(userProfile)

	reply, err := p.ai.Chat(ctx, adapter.ChatRequest{
		Model: p.utilityModel,
		Messages: []adapter.Message{
			{Role: model.RoleSystem, Content: profileRewritePrompt(userProfile)},
			{Role: model.RoleUser, Content: userProfile},
		},
		Temperature: tempPtr(0.3),
		MaxTokens:   100,
	})
	if err != nil {
		return "", aiFailure(p.log, "Partner.SetProfileFromUserPerspective", err)
	}
	p.Profile = strings.TrimSpace(reply)
	return userProfile, nil
}

// SetScenarioFromUserPerspective is the symmetric rewrite for the scenario
// ("I forgot to pick up the kids" becomes "your partner forgot to pick up
// the kids").
func (p *Partner) SetScenarioFromUserPerspective(ctx context.Context, userScenario string) (string, error) {
	userScenario = strings.TrimSpace(userScenario)

	reply, err := p.ai.Chat(ctx, adapter.ChatRequest{
		Model: p.utilityModel,
		Messages: []adapter.Message{
			{Role: model.RoleSystem, Content: scenarioRewritePrompt(userScenario)},
			{Role: model.RoleUser, Content: userScenario},
		},
		Temperature: tempPtr(0.3),
		MaxTokens:   100,
	})
	if err != nil {
		return "", aiFailure(p.log, "Partner.SetScenarioFromUserPerspective", err)
	}
	p.Scenario = strings.TrimSpace(reply)
	return userScenario, nil
}
