//go:build !integration

package application_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

type fakeUserUC struct {
	users      map[int64]*model.User
	registered int
}

func newFakeUserUC() *fakeUserUC {
	return &fakeUserUC{users: make(map[int64]*model.User)}
}

func (f *fakeUserUC) seed(tgID int64, id string) *model.User {
	u := &model.User{ID: id, TelegramID: tgID}
	f.users[tgID] = u
	return u
}

func (f *fakeUserUC) RegisterOrFetch(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	if u, ok := f.users[telegramID]; ok {
		return u, nil
	}
	f.registered++
	return f.seed(telegramID, "new-user"), nil
}

func (f *fakeUserUC) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	u, ok := f.users[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// fakeSessionUC returns scripted turn results and records invocations.
type fakeSessionUC struct {
	sessions map[int64]*usecase.Session

	startRes usecase.TurnResult
	turnRes  usecase.TurnResult
	turnErr  error

	startCalls  int
	handleCalls int
}

func newFakeSessionUC() *fakeSessionUC {
	return &fakeSessionUC{sessions: make(map[int64]*usecase.Session)}
}

func (f *fakeSessionUC) StartSession(ctx context.Context, chatID int64) (usecase.TurnResult, error) {
	f.startCalls++
	f.sessions[chatID] = &usecase.Session{ChatID: chatID, Stage: usecase.StageProfile}
	return f.startRes, nil
}

func (f *fakeSessionUC) HandleTurn(ctx context.Context, chatID int64, text string) (usecase.TurnResult, error) {
	f.handleCalls++
	return f.turnRes, f.turnErr
}

func (f *fakeSessionUC) Find(chatID int64) (*usecase.Session, error) {
	s, ok := f.sessions[chatID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return s, nil
}

func (f *fakeSessionUC) Reset(chatID int64) { delete(f.sessions, chatID) }

type memLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	deducts  int
}

func newMemLedger() *memLedger {
	return &memLedger{balances: make(map[string]int64)}
}

func (m *memLedger) Balance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *memLedger) Grant(ctx context.Context, userID string, amount int64, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return nil
}

func (m *memLedger) Deduct(ctx context.Context, userID string, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deducts++
	bal := m.balances[userID]
	if bal < amount {
		return 0, domain.ErrInsufficientCredits
	}
	bal -= amount
	m.balances[userID] = bal
	return bal, nil
}
