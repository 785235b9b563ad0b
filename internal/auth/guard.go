package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"go-calc-auth/internal/model"
)

type tokenVerifier interface {
	Verify(token string) (jwt.MapClaims, error)
}

type accountFinder interface {
	FindByID(ctx context.Context, id int64) (model.Account, error)
}

// Guard resolves bearer tokens to accounts for protected routes.
type Guard struct {
	codec    tokenVerifier
	accounts accountFinder
}

func NewGuard(codec tokenVerifier, accounts accountFinder) *Guard {
	return &Guard{codec: codec, accounts: accounts}
}

// Resolve walks the token through verification, subject extraction and
// account lookup. Every rejection is an *UnauthenticatedError carrying one
// of the Reason constants; store I/O failures are returned unwrapped.
func (g *Guard) Resolve(ctx context.Context, token string) (model.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Account{}, unauthenticated(ReasonMissingToken, nil)
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenDecode) {
			slog.Error("token decode failure", "error", err)
		}
		return model.Account{}, unauthenticated(ReasonInvalidToken, err)
	}

	subject, _ := claims[ClaimSubject].(string)
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return model.Account{}, unauthenticated(ReasonMissingSubject, nil)
	}

	accountID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return model.Account{}, unauthenticated(ReasonAccountNotFound, err)
	}

	account, err := g.accounts.FindByID(ctx, accountID)
	if errors.Is(err, model.ErrAccountNotFound) {
		return model.Account{}, unauthenticated(ReasonAccountNotFound, err)
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("resolve session account: %w", err)
	}
	if !account.IsActive {
		return model.Account{}, unauthenticated(ReasonAccountNotFound, nil)
	}

	return account, nil
}
