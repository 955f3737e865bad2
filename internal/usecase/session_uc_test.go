//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

func newSessionUC(ai *scriptedAI) usecase.SessionUseCase {
	return usecase.NewSessionUseCase(func() *usecase.Conversation {
		return newTestConversation(ai)
	}, newTestLogger())
}

func TestSessionUseCase_StartSession(t *testing.T) {
	ctx := context.Background()
	uc := newSessionUC(&scriptedAI{})

	res, err := uc.StartSession(ctx, 42)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	// The welcome stage consumes no input, so a fresh session already sits
	// at profile capture.
	if res.Stage != usecase.StageProfile {
		t.Errorf("Stage = %v, want profile", res.Stage)
	}
	if len(res.Messages) != 2 {
		t.Fatalf("message count = %d, want welcome + profile prompt", len(res.Messages))
	}
	if !strings.Contains(res.Messages[0].Text, "We-Relate") {
		t.Errorf("first message = %q, want the welcome text", res.Messages[0].Text)
	}
	if !strings.Contains(res.Messages[1].Text, "relationship") {
		t.Errorf("second message = %q, want the profile prompt", res.Messages[1].Text)
	}

	sess, err := uc.Find(42)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if sess.CurrentStage() != usecase.StageProfile {
		t.Errorf("session stage = %v, want profile", sess.CurrentStage())
	}
}

func TestSessionUseCase_FullOnboarding(t *testing.T) {
	ctx := context.Background()
	ai := &scriptedAI{replies: []string{
		"you are Maria",
		"your partner forgot the groceries",
		"Seriously? I asked you one thing.",
		"frustrated",
		"One thing. That's all I asked.",
		"Name her feeling before you explain.",
	}}
	uc := newSessionUC(ai)

	if _, err := uc.StartSession(ctx, 7); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	res, err := uc.HandleTurn(ctx, 7, "my wife Maria")
	if err != nil {
		t.Fatalf("profile turn: %v", err)
	}
	if res.Stage != usecase.StageScenario || res.CompletedTurn {
		t.Errorf("profile turn result = %+v", res)
	}

	res, err = uc.HandleTurn(ctx, 7, "I forgot the groceries")
	if err != nil {
		t.Fatalf("scenario turn: %v", err)
	}
	if res.Stage != usecase.StageConversation {
		t.Errorf("Stage = %v, want conversation", res.Stage)
	}
	if res.CompletedTurn {
		t.Error("onboarding turns must not bill")
	}
	// Partner opening plus the info panel.
	if len(res.Messages) != 2 {
		t.Fatalf("message count = %d, want 2", len(res.Messages))
	}
	if res.Messages[0].Author != usecase.AuthorPartner {
		t.Errorf("opening author = %q, want Partner", res.Messages[0].Author)
	}
	if !strings.Contains(res.Messages[1].Text, "@coach") {
		t.Error("info panel should explain how to summon the coach")
	}

	res, err = uc.HandleTurn(ctx, 7, "I'm sorry, work ran late")
	if err != nil {
		t.Fatalf("partner turn: %v", err)
	}
	if !res.CompletedTurn {
		t.Error("conversation-stage exchange should mark a completed turn")
	}
	if len(res.Messages) != 1 || res.Messages[0].Author != usecase.AuthorPartner {
		t.Errorf("partner turn messages = %+v", res.Messages)
	}

	res, err = uc.HandleTurn(ctx, 7, "@coach how do I de-escalate?")
	if err != nil {
		t.Fatalf("coach turn: %v", err)
	}
	if res.Messages[0].Author != usecase.AuthorCoach {
		t.Errorf("coach turn author = %q, want Coach", res.Messages[0].Author)
	}
}

func TestSessionUseCase_ValidationStaysPut(t *testing.T) {
	ctx := context.Background()
	ai := &scriptedAI{}
	uc := newSessionUC(ai)

	if _, err := uc.StartSession(ctx, 9); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	res, err := uc.HandleTurn(ctx, 9, "   ")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	if res.Stage != usecase.StageProfile {
		t.Errorf("Stage = %v, want profile (no transition)", res.Stage)
	}
	if len(res.Messages) != 1 || !res.Messages[0].IsError {
		t.Errorf("messages = %+v, want one error message", res.Messages)
	}
	if ai.callCount() != 0 {
		t.Error("validation failure must not reach the provider")
	}
}

func TestSessionUseCase_AIFailureKeepsStage(t *testing.T) {
	ctx := context.Background()
	ai := &scriptedAI{err: errors.New("connection refused")}
	uc := newSessionUC(ai)

	if _, err := uc.StartSession(ctx, 11); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	_, err := uc.HandleTurn(ctx, 11, "my wife Maria")
	if !errors.Is(err, domain.ErrAIService) {
		t.Fatalf("error = %v, want an AI-service failure", err)
	}
	sess, _ := uc.Find(11)
	if sess.CurrentStage() != usecase.StageProfile {
		t.Errorf("stage moved to %v on failure, want profile", sess.CurrentStage())
	}
}

func TestSessionUseCase_ConcurrentStageReads(t *testing.T) {
	ctx := context.Background()
	ai := &scriptedAI{replies: []string{
		"you are Maria",
		"your partner forgot the groceries",
	}}
	uc := newSessionUC(ai)

	if _, err := uc.StartSession(ctx, 5); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	sess, err := uc.Find(5)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	// A freshly published session must never surface the pre-welcome stage.
	if got := sess.CurrentStage(); got == usecase.StageWelcome {
		t.Errorf("stage after start = %v, want past welcome", got)
	}

	// Stage reads race against turns when the transport handles two
	// messages from the same chat on different workers.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, text := range []string{"my wife Maria", "I forgot the groceries", "I'm sorry, work ran late"} {
			if _, err := uc.HandleTurn(ctx, 5, text); err != nil {
				t.Errorf("HandleTurn(%q): %v", text, err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = sess.CurrentStage()
		}
	}()
	wg.Wait()

	if got := sess.CurrentStage(); got != usecase.StageConversation {
		t.Errorf("final stage = %v, want conversation", got)
	}
}

func TestSessionUseCase_FindAndReset(t *testing.T) {
	ctx := context.Background()
	uc := newSessionUC(&scriptedAI{})

	if _, err := uc.Find(1); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("Find before start = %v, want ErrNoSession", err)
	}

	if _, err := uc.StartSession(ctx, 1); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := uc.Find(1); err != nil {
		t.Errorf("Find after start: %v", err)
	}

	uc.Reset(1)
	if _, err := uc.Find(1); !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("Find after reset = %v, want ErrNoSession", err)
	}
}

func TestSessionUseCase_HandleTurnWithoutSession(t *testing.T) {
	uc := newSessionUC(&scriptedAI{})
	_, err := uc.HandleTurn(context.Background(), 99, "hello")
	if !errors.Is(err, domain.ErrNoSession) {
		t.Errorf("error = %v, want ErrNoSession", err)
	}
}
