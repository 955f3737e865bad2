package usecase

import (
	"context"
	"strings"

	"github.com/jamesjscully/we-relate/internal/domain/model"
)

// Stage is a session's position in the fixed onboarding sequence. The
// sequence only moves forward and StageConversation is absorbing.
type Stage int

const (
	StageWelcome Stage = iota
	StageProfile
	StageScenario
	StageConversation
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StageProfile:
		return "profile"
	case StageScenario:
		return "scenario"
	case StageConversation:
		return "conversation"
	default:
		return "unknown"
	}
}

// Static stage texts shown to the user.
const (
	welcomeStagePrompt = "Welcome to We-Relate. This is an app that lets you roleplay conversations with AI to practice intentional dialogue."

	profileStagePrompt = "Describe the **relationship** to the person you want to practice with (e.g., 'my spouse Sarah', 'my teenage daughter Alex', 'my co-worker Jim'):"

	scenarioStagePrompt = "Describe the **scenario** or situation you want to practice (e.g., 'I forgot to pick up groceries and she's frustrated'):"

	errNeedProfile  = "Please describe your relationship."
	errNeedScenario = "Please describe the scenario."
	errNeedMessage  = "Please enter a message."
)

// StageResult is the outcome of processing one input at one stage.
// ErrorMessage is a local validation failure: it means "stay put, tell the
// user"; it is never logged and never an AI-service failure.
type StageResult struct {
	Next                 Stage
	PromptMessage        string
	ResponseMessage      string
	ResponseChannel      model.ChatChannel
	ShowConversationInfo bool
	ErrorMessage         string
}

// StageHandler validates input for one stage and drives the conversation
// mutations that stage owns. AI-service failures surface as the error return,
// leaving the session at its current stage.
type StageHandler interface {
	// Prompt is the static text shown when entering this stage; empty for
	// the open-ended conversation stage.
	Prompt() string
	Handle(ctx context.Context, userInput string, conv *Conversation) (StageResult, error)
}

type welcomeStage struct{}

func (welcomeStage) Prompt() string { return welcomeStagePrompt }

// Handle ignores input and moves straight to profile capture.
func (welcomeStage) Handle(ctx context.Context, _ string, _ *Conversation) (StageResult, error) {
	return StageResult{Next: StageProfile, PromptMessage: profileStagePrompt}, nil
}

type profileStage struct{}

func (profileStage) Prompt() string { return profileStagePrompt }

func (profileStage) Handle(ctx context.Context, userInput string, conv *Conversation) (StageResult, error) {
	if strings.TrimSpace(userInput) == "" {
		return StageResult{Next: StageProfile, ErrorMessage: errNeedProfile}, nil
	}
	if err := conv.SetProfile(ctx, userInput); err != nil {
		return StageResult{}, err
	}
	return StageResult{Next: StageScenario, PromptMessage: scenarioStagePrompt}, nil
}

type scenarioStage struct{}

func (scenarioStage) Prompt() string { return scenarioStagePrompt }

func (scenarioStage) Handle(ctx context.Context, userInput string, conv *Conversation) (StageResult, error) {
	if strings.TrimSpace(userInput) == "" {
		return StageResult{Next: StageScenario, ErrorMessage: errNeedScenario}, nil
	}
	if err := conv.SetScenario(ctx, userInput); err != nil {
		return StageResult{}, err
	}

	opening, err := conv.GeneratePartnerOpening(ctx)
	if err != nil {
		return StageResult{}, err
	}
	conv.History.Add(model.RoleAssistant, opening, model.ChannelPartner)

	return StageResult{
		Next:                 StageConversation,
		ResponseMessage:      opening,
		ResponseChannel:      model.ChannelPartner,
		ShowConversationInfo: true,
	}, nil
}

type conversationStage struct{}

func (conversationStage) Prompt() string { return "" }

func (conversationStage) Handle(ctx context.Context, userInput string, conv *Conversation) (StageResult, error) {
	if strings.TrimSpace(userInput) == "" {
		return StageResult{Next: StageConversation, ErrorMessage: errNeedMessage}, nil
	}
	reply, channel, err := conv.ProcessUserMessage(ctx, strings.TrimSpace(userInput))
	if err != nil {
		return StageResult{}, err
	}
	return StageResult{Next: StageConversation, ResponseMessage: reply, ResponseChannel: channel}, nil
}

// StageManager owns the stage → handler table.
type StageManager struct {
	handlers map[Stage]StageHandler
}

func NewStageManager() *StageManager {
	return &StageManager{handlers: map[Stage]StageHandler{
		StageWelcome:      welcomeStage{},
		StageProfile:      profileStage{},
		StageScenario:     scenarioStage{},
		StageConversation: conversationStage{},
	}}
}

func (m *StageManager) Handler(s Stage) StageHandler { return m.handlers[s] }

func (m *StageManager) InitialStage() Stage { return StageWelcome }
