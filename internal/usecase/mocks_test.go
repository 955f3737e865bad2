//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// scriptedAI is a hand-rolled AIServiceAdapter for unit tests. Replies are
// popped in order; every request is recorded for assertions. failOn makes
// the nth call (1-based) fail with failErr.
type scriptedAI struct {
	mu      sync.Mutex
	replies []string
	calls   []adapter.ChatRequest

	err     error // when set, every call fails
	failOn  int
	failErr error
}

func (a *scriptedAI) Chat(ctx context.Context, req adapter.ChatRequest) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, req)
	if a.err != nil {
		return "", a.err
	}
	if a.failOn == len(a.calls) {
		return "", a.failErr
	}
	if len(a.replies) > 0 {
		r := a.replies[0]
		a.replies = a.replies[1:]
		return r, nil
	}
	return "ok", nil
}

func (a *scriptedAI) ChatWithUsage(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	reply, err := a.Chat(ctx, req)
	return reply, adapter.Usage{}, err
}

func (a *scriptedAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"chat-model", "utility-model"}, nil
}

func (a *scriptedAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(m.Content) / 4
	}
	return n, nil
}

func (a *scriptedAI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

func (a *scriptedAI) call(i int) adapter.ChatRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[i]
}

// memUserRepo is a small in-memory UserRepository used by unit tests.
type memUserRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.User
	saveErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

func (m *memUserRepo) Save(ctx context.Context, qx any, user *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.store[user.TelegramID] = &cp
	return nil
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, qx any, telegramID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// memLedger is an in-memory CreditLedger that records grants.
type memLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	grants   []grantCall
}

type grantCall struct {
	userID string
	amount int64
	reason string
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
	m.grants = append(m.grants, grantCall{userID: userID, amount: amount, reason: reason})
	return nil
}

func (m *memLedger) Deduct(ctx context.Context, userID string, amount int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal := m.balances[userID]
	if bal < amount {
		return 0, domain.ErrInsufficientCredits
	}
	bal -= amount
	m.balances[userID] = bal
	return bal, nil
}
