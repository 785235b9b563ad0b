package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go-calc-auth/internal/model"
)

type loginFinder interface {
	FindByLogin(ctx context.Context, identifier string) (model.Account, error)
}

// Authenticator confirms a login identifier (username or email) and
// password pair against the account store.
type Authenticator struct {
	accounts loginFinder
	hasher   *Hasher
	// dummyDigest is compared against when no account matches so that
	// unknown identifiers cost as much as wrong passwords.
	dummyDigest string
}

func NewAuthenticator(accounts loginFinder, hasher *Hasher) *Authenticator {
	a := &Authenticator{accounts: accounts, hasher: hasher}

	digest, err := hasher.Hash("timing-equalizer-password")
	if err != nil {
		slog.Warn("dummy digest unavailable; login timing not equalized", "error", err)
	} else {
		a.dummyDigest = digest
	}

	return a
}

// Authenticate returns the matching active account, or nil when the
// credentials do not match. An error is only returned for store failures.
func (a *Authenticator) Authenticate(ctx context.Context, identifier string, password string) (*model.Account, error) {
	if identifier == "" {
		a.burn(password)
		return nil, nil
	}

	account, err := a.accounts.FindByLogin(ctx, identifier)
	if errors.Is(err, model.ErrAccountNotFound) {
		a.burn(password)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup account for login: %w", err)
	}

	if !a.hasher.Verify(password, account.PasswordHash) {
		return nil, nil
	}
	if !account.IsActive {
		return nil, nil
	}

	return &account, nil
}

func (a *Authenticator) burn(password string) {
	if a.dummyDigest != "" {
		_ = a.hasher.Verify(password, a.dummyDigest)
	}
}
