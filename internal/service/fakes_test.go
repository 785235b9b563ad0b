package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-calc-auth/internal/model"
)

var errStoreDown = errors.New("store down")

type memoryAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]model.Account
	err      error
	// skipPrecheck hides existing rows from FindByUsername/FindByEmail so the
	// Create uniqueness path can be exercised.
	skipPrecheck bool
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{accounts: map[int64]model.Account{}}
}

func (m *memoryAccounts) Create(_ context.Context, a model.Account) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.Account{}, m.err
	}
	for _, existing := range m.accounts {
		if existing.Username == a.Username {
			return model.Account{}, model.ErrUsernameTaken
		}
		if existing.Email == a.Email {
			return model.Account{}, model.ErrEmailTaken
		}
	}

	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	m.accounts[a.ID] = a
	return a, nil
}

func (m *memoryAccounts) FindByID(_ context.Context, id int64) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.Account{}, m.err
	}
	a, ok := m.accounts[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (m *memoryAccounts) find(match func(model.Account) bool, precheck bool) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.Account{}, m.err
	}
	if precheck && m.skipPrecheck {
		return model.Account{}, model.ErrAccountNotFound
	}
	for id := int64(1); id <= m.nextID; id++ {
		if a, ok := m.accounts[id]; ok && match(a) {
			return a, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (m *memoryAccounts) FindByUsername(_ context.Context, username string) (model.Account, error) {
	return m.find(func(a model.Account) bool { return a.Username == username }, true)
}

func (m *memoryAccounts) FindByEmail(_ context.Context, email string) (model.Account, error) {
	return m.find(func(a model.Account) bool { return a.Email == email }, true)
}

func (m *memoryAccounts) FindByLogin(_ context.Context, identifier string) (model.Account, error) {
	if a, err := m.find(func(a model.Account) bool { return a.Username == identifier }, false); err == nil {
		return a, nil
	}
	return m.find(func(a model.Account) bool { return a.Email == identifier }, false)
}

func (m *memoryAccounts) UpdatePassword(_ context.Context, id int64, digest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	a, ok := m.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	a.PasswordHash = digest
	m.accounts[id] = a
	return nil
}

func (m *memoryAccounts) setActive(id int64, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := m.accounts[id]
	a.IsActive = active
	m.accounts[id] = a
}

type memoryCalculations struct {
	mu    sync.Mutex
	items []model.Calculation
	err   error
}

func (m *memoryCalculations) Create(_ context.Context, c model.Calculation) (model.Calculation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return model.Calculation{}, m.err
	}
	c.ID = int64(len(m.items) + 1)
	c.CreatedAt = time.Now().UTC()
	m.items = append(m.items, c)
	return c, nil
}

func (m *memoryCalculations) ListByAccount(_ context.Context, q model.CalculationQuery) ([]model.Calculation, model.Meta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, model.Meta{}, m.err
	}
	out := make([]model.Calculation, 0)
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].AccountID == q.AccountID {
			out = append(out, m.items[i])
		}
	}
	return out, model.Meta{Page: 1, Limit: len(out), Total: len(out), TotalPages: 1}, nil
}
