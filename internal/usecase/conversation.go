package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
)

// Conversation orchestrates one coaching session's dialogue: the shared
// history, the deterministic router, and the two personas. It holds both
// framings of the setup text: UserProfile/UserScenario in the user's own
// words (shown back to the user, fed to the coach) and
// PartnerProfile/PartnerScenario in the partner's first person (fed to the
// roleplay persona).
//
// A Conversation is confined to a single session and is not safe for
// concurrent use; the session layer serializes turns.
type Conversation struct {
	History  *model.ChatHistory
	Partner  *Partner
	Coach    *Coach
	router   Router
	speakers map[model.ChatChannel]Speaker

	UserProfile     string
	UserScenario    string
	PartnerProfile  string
	PartnerScenario string
}

func NewConversation(ai adapter.AIServiceAdapter, chatModel, utilityModel string, log *zerolog.Logger) *Conversation {
	partner := NewPartner(ai, chatModel, utilityModel, log)
	coach := NewCoach(ai, chatModel, log)
	return &Conversation{
		History: model.NewChatHistory(),
		Partner: partner,
		Coach:   coach,
		speakers: map[model.ChatChannel]Speaker{
			model.ChannelCoach:   coach,
			model.ChannelPartner: partner,
		},
	}
}

// SetProfile delegates the partner-perspective rewrite to the Partner and
// fans the user-perspective text out to the coach and the display fields.
// Propagates AI-service failures; no field is touched on error.
func (c *Conversation) SetProfile(ctx context.Context, userProfile string) error {
	original, err := c.Partner.SetProfileFromUserPerspective(ctx, strings.TrimSpace(userProfile))
	if err != nil {
		return err
	}
	c.UserProfile = original
	c.PartnerProfile = c.Partner.Profile
	c.Coach.PartnerProfile = original
	return nil
}

// SetScenario is symmetric to SetProfile for the scenario fields.
func (c *Conversation) SetScenario(ctx context.Context, userScenario string) error {
	original, err := c.Partner.SetScenarioFromUserPerspective(ctx, strings.TrimSpace(userScenario))
	if err != nil {
		return err
	}
	c.UserScenario = original
	c.PartnerScenario = c.Partner.Scenario
	c.Coach.PartnerScenario = original
	return nil
}

// ProcessUserMessage runs one turn: route, strip the @coach prefix from
// coach-directed text, record the user message, update the partner's
// emotional state for partner-directed turns (the state must reflect the
// just-added message before the partner composes its reply), then get and
// record the persona's reply.
//
// Errors from any step propagate unmodified; this layer is a pure
// pass-through for AI-service failures.
func (c *Conversation) ProcessUserMessage(ctx context.Context, userText string) (string, model.ChatChannel, error) {
	channel := c.router.Route(userText)

	cleanText := userText
	if channel == model.ChannelCoach {
		cleanText = StripCoachPrefix(userText)
	}

	c.History.Add(model.RoleUser, cleanText, channel)

	if channel == model.ChannelPartner {
		if _, err := c.Partner.React(ctx, c.History); err != nil {
			return "", channel, err
		}
	}

	reply, err := c.speakers[channel].Respond(ctx, c.History)
	if err != nil {
		return "", channel, err
	}

	c.History.Add(model.RoleAssistant, reply, channel)
	return reply, channel, nil
}

// GeneratePartnerOpening asks the partner for its first in-character line
// against the still-empty history, once, right after scenario setup. The
// caller records the returned text as an assistant/PARTNER message.
func (c *Conversation) GeneratePartnerOpening(ctx context.Context) (string, error) {
	return c.Partner.Respond(ctx, c.History)
}
