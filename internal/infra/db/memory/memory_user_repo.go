// Package memory holds in-memory repository implementations used in dev
// mode, where the process runs without Postgres.
package memory

import (
	"context"
	"sync"

	"github.com/jamesjscully/we-relate/internal/domain"
	"github.com/jamesjscully/we-relate/internal/domain/model"
	"github.com/jamesjscully/we-relate/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	mu    sync.RWMutex
	byTg  map[int64]*model.User
	byUID map[string]*model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byTg:  make(map[int64]*model.User),
		byUID: make(map[string]*model.User),
	}
}

func (m *UserRepo) Save(ctx context.Context, qx any, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.byTg[user.TelegramID] = &cp
	m.byUID[user.ID] = &cp
	return nil
}

func (m *UserRepo) FindByTelegramID(ctx context.Context, qx any, telegramID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byTg[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepo) FindByID(ctx context.Context, qx any, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byUID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
