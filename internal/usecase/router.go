package usecase

import (
	"strings"

	"github.com/jamesjscully/we-relate/internal/domain/model"
)

// CoachPrefix is the literal command token that addresses the coach persona.
const CoachPrefix = "@coach"

// Router maps raw user input to a channel. Pure and deterministic, no network
// call: a literal prefix check beats a learned classifier here because a
// routing mistake silently misdirects emotionally sensitive input.
type Router struct{}

// Route returns ChannelCoach when the trimmed, case-folded message starts
// with "@coach", ChannelPartner otherwise.
func (Router) Route(userMessage string) model.ChatChannel {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(userMessage)), CoachPrefix) {
		return model.ChannelCoach
	}
	return model.ChannelPartner
}

// StripCoachPrefix removes exactly the leading "@coach" token and surrounding
// whitespace, preserving the rest of the message untouched. Input without the
// prefix is returned as-is.
func StripCoachPrefix(userMessage string) string {
	trimmed := strings.TrimSpace(userMessage)
	if strings.HasPrefix(strings.ToLower(trimmed), CoachPrefix) {
		return strings.TrimSpace(trimmed[len(CoachPrefix):])
	}
	return userMessage
}
