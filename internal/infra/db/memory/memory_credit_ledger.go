package memory

import (
	"context"
	"sync"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
)

var _ repository.CreditLedger = (*CreditLedger)(nil)

type CreditLedger struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewCreditLedger() *CreditLedger {
	return &CreditLedger{balances: make(map[string]int64)}
}

func (m *CreditLedger) Balance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *CreditLedger) Grant(ctx context.Context, userID string, amount int64, reason string) error {
	if amount <= 0 {
		return domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return nil
}

func (m *CreditLedger) Deduct(ctx context.Context, userID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
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
