package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
)

// Display authors for rendered messages.
const (
	AuthorSystem  = "System"
	AuthorPartner = "Partner"
	AuthorCoach   = "Coach"
)

// DisplayMessage is one message the transport should render, in order.
type DisplayMessage struct {
	Author  string
	Text    string
	IsError bool
}

// TurnResult is everything the transport needs after one delivered input:
// the messages to show and where the session ended up. CompletedTurn marks a
// conversation-stage exchange that produced a persona reply; the application
// layer charges billing off that flag.
type TurnResult struct {
	Stage         Stage
	Messages      []DisplayMessage
	CompletedTurn bool
}

// Session is one user's coaching session: current stage plus the conversation
// aggregate. Turns are serialized on mu — the lock is held across the LLM
// round trip, so a session processes exactly one turn at a time while
// different sessions run concurrently.
type Session struct {
	ID        string
	ChatID    int64
	Stage     Stage
	Conv      *Conversation
	CreatedAt time.Time

	mu sync.Mutex
}

// CurrentStage reads the stage under the session lock. Callers outside the
// turn loop must use this instead of reading Stage directly: HandleTurn
// mutates the field from worker goroutines.
func (s *Session) CurrentStage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Stage
}

// ConversationFactory builds a fresh Conversation for a new session.
type ConversationFactory func() *Conversation

// Compile-time check
var _ SessionUseCase = (*sessionUC)(nil)

type SessionUseCase interface {
	// StartSession creates (or restarts) the session for a chat and returns
	// the onboarding messages.
	StartSession(ctx context.Context, chatID int64) (TurnResult, error)

	// HandleTurn feeds one raw user input to the session's current stage.
	HandleTurn(ctx context.Context, chatID int64, text string) (TurnResult, error)

	// Find returns the live session for a chat, or domain.ErrNoSession.
	Find(chatID int64) (*Session, error)

	// Reset discards the session so the next /start begins fresh.
	Reset(chatID int64)
}

type sessionUC struct {
	mu       sync.RWMutex
	sessions map[int64]*Session

	stages  *StageManager
	newConv ConversationFactory
	log     *zerolog.Logger
}

func NewSessionUseCase(newConv ConversationFactory, log *zerolog.Logger) *sessionUC {
	return &sessionUC{
		sessions: make(map[int64]*Session),
		stages:   NewStageManager(),
		newConv:  newConv,
		log:      log,
	}
}

func (u *sessionUC) StartSession(ctx context.Context, chatID int64) (TurnResult, error) {
	s := &Session{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Stage:     u.stages.InitialStage(),
		Conv:      u.newConv(),
		CreatedAt: time.Now(),
	}

	welcome := u.stages.Handler(s.Stage).Prompt()

	// The welcome stage consumes no input; run it immediately so the user
	// lands on the profile question. The session is published only after
	// that transition, so concurrent lookups never observe the pre-welcome
	// stage.
	res, err := u.stages.Handler(s.Stage).Handle(ctx, "", s.Conv)
	if err != nil {
		return TurnResult{}, err
	}
	s.Stage = res.Next

	u.mu.Lock()
	u.sessions[chatID] = s
	u.mu.Unlock()

	u.log.Info().Str("session_id", s.ID).Int64("chat_id", chatID).Msg("session started")

	return TurnResult{
		Stage: s.Stage,
		Messages: []DisplayMessage{
			{Author: AuthorSystem, Text: welcome},
			{Author: AuthorSystem, Text: res.PromptMessage},
		},
	}, nil
}

func (u *sessionUC) Find(chatID int64) (*Session, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	s, ok := u.sessions[chatID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func (u *sessionUC) Reset(chatID int64) {
	u.mu.Lock()
	delete(u.sessions, chatID)
	u.mu.Unlock()
}

func (u *sessionUC) HandleTurn(ctx context.Context, chatID int64, text string) (TurnResult, error) {
	s, err := u.Find(chatID)
	if err != nil {
		return TurnResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stageBefore := s.Stage
	res, err := u.stages.Handler(s.Stage).Handle(ctx, text, s.Conv)
	if err != nil {
		// AI-service failures leave the stage untouched; the transport
		// renders the uniform user-safe message.
		return TurnResult{}, err
	}

	// Validation failure: stay put, tell the user. Not logged.
	if res.ErrorMessage != "" {
		return TurnResult{
			Stage:    s.Stage,
			Messages: []DisplayMessage{{Author: AuthorSystem, Text: res.ErrorMessage, IsError: true}},
		}, nil
	}

	s.Stage = res.Next

	out := TurnResult{Stage: s.Stage}
	if res.PromptMessage != "" {
		out.Messages = append(out.Messages, DisplayMessage{Author: AuthorSystem, Text: res.PromptMessage})
	}
	if res.ResponseMessage != "" {
		out.Messages = append(out.Messages, DisplayMessage{
			Author: responseAuthor(res.ResponseChannel),
			Text:   res.ResponseMessage,
		})
	}
	if res.ShowConversationInfo {
		out.Messages = append(out.Messages, DisplayMessage{Author: AuthorSystem, Text: conversationInfo(s.Conv)})
	}
	out.CompletedTurn = stageBefore == StageConversation && res.ResponseMessage != ""

	return out, nil
}

func responseAuthor(ch model.ChatChannel) string {
	if ch == model.ChannelCoach {
		return AuthorCoach
	}
	return AuthorPartner
}

// conversationInfo is the one-time panel shown when the open conversation
// begins: the captured context plus how to summon the coach.
func conversationInfo(conv *Conversation) string {
	var parts []string
	if conv.UserProfile != "" {
		parts = append(parts, fmt.Sprintf("**Relationship**: %s", conv.UserProfile))
	}
	if conv.UserScenario != "" {
		parts = append(parts, fmt.Sprintf("**Scenario**: %s", conv.UserScenario))
	}
	if conv.Partner.EmotionalState != "" {
		who := conv.UserProfile
		if who == "" {
			who = AuthorPartner
		}
		parts = append(parts, fmt.Sprintf("**%s's emotional state**: %s", who, conv.Partner.EmotionalState))
	}
	parts = append(parts, "You can:\n- Reply normally to talk to your partner\n- Type `@coach <message>` to get coaching advice")
	return strings.Join(parts, "\n\n")
}
