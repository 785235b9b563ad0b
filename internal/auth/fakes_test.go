package auth

import (
	"context"
	"errors"
	"sync"

	"go-calc-auth/internal/model"
)

var errStoreDown = errors.New("store unavailable")

type fakeAccounts struct {
	mu       sync.Mutex
	accounts []model.Account
	err      error
	lookups  int
}

func (f *fakeAccounts) FindByLogin(_ context.Context, identifier string) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++

	if f.err != nil {
		return model.Account{}, f.err
	}
	for _, account := range f.accounts {
		if account.Username == identifier || account.Email == identifier {
			return account, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (f *fakeAccounts) FindByID(_ context.Context, id int64) (model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++

	if f.err != nil {
		return model.Account{}, f.err
	}
	for _, account := range f.accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}
