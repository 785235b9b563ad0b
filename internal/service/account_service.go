package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go-calc-auth/internal/auth"
	"go-calc-auth/internal/metrics"
	"go-calc-auth/internal/model"
	"go-calc-auth/internal/repository"
	"go-calc-auth/pkg/apierror"
)

const (
	msgUsernameExists     = "Username already exists"
	msgEmailExists        = "Email already registered"
	msgInvalidCredentials = "Invalid username or password"
	tokenTypeBearer       = "bearer"
)

type AccountService struct {
	accounts      repository.AccountStore
	hasher        *auth.Hasher
	authenticator *auth.Authenticator
	codec         *auth.TokenCodec
	metrics       *metrics.Metrics
}

func NewAccountService(accounts repository.AccountStore, hasher *auth.Hasher, codec *auth.TokenCodec, m *metrics.Metrics) *AccountService {
	return &AccountService{
		accounts:      accounts,
		hasher:        hasher,
		authenticator: auth.NewAuthenticator(accounts, hasher),
		codec:         codec,
		metrics:       m,
	}
}

// Register creates an active account. No token is issued; clients log in
// separately.
func (s *AccountService) Register(ctx context.Context, req model.RegisterRequest) (model.Account, error) {
	account, err := s.register(ctx, req)
	s.metrics.Registration(err == nil)
	return account, err
}

func (s *AccountService) register(ctx context.Context, req model.RegisterRequest) (model.Account, error) {
	req, err := normalizeRegistration(req)
	if err != nil {
		return model.Account{}, err
	}

	// Friendly pre-checks; the unique constraints remain the real guarantee.
	if err := s.ensureAvailable(ctx, req.Username, req.Email); err != nil {
		return model.Account{}, err
	}

	digest, err := s.hashPassword(req.Password)
	if err != nil {
		return model.Account{}, err
	}

	account, err := s.accounts.Create(ctx, model.Account{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: digest,
		IsActive:     true,
	})
	if err != nil {
		if conflict := conflictFor(err); conflict != nil {
			return model.Account{}, conflict
		}
		s.metrics.InternalFailure(metrics.ComponentStore)
		return model.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.Info("account registered", "account_id", account.ID, "username", account.Username)
	return account, nil
}

func (s *AccountService) ensureAvailable(ctx context.Context, username string, email string) error {
	_, err := s.accounts.FindByUsername(ctx, username)
	if err == nil {
		return conflictFor(model.ErrUsernameTaken)
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		s.metrics.InternalFailure(metrics.ComponentStore)
		return fmt.Errorf("check username: %w", err)
	}

	_, err = s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return conflictFor(model.ErrEmailTaken)
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		s.metrics.InternalFailure(metrics.ComponentStore)
		return fmt.Errorf("check email: %w", err)
	}

	return nil
}

// Login checks identifier (username or email) and password and issues an
// access token. Every credential mismatch yields the same 401.
func (s *AccountService) Login(ctx context.Context, identifier string, password string) (model.TokenResponse, error) {
	account, err := s.authenticator.Authenticate(ctx, identifier, password)
	if err != nil {
		s.metrics.InternalFailure(metrics.ComponentStore)
		return model.TokenResponse{}, err
	}
	if account == nil {
		s.metrics.Login(false)
		return model.TokenResponse{}, apierror.Wrap(model.ErrInvalidCredentials, "UNAUTHORIZED", msgInvalidCredentials, http.StatusUnauthorized)
	}

	resp, err := s.IssueToken(*account)
	if err != nil {
		s.metrics.Login(false)
		return model.TokenResponse{}, err
	}

	s.metrics.Login(true)
	slog.Info("login succeeded", "account_id", account.ID)
	return resp, nil
}

// IssueToken signs an access token whose subject is the account id.
func (s *AccountService) IssueToken(account model.Account) (model.TokenResponse, error) {
	ttl := s.codec.TTL()

	token, err := s.codec.IssueWithTTL(map[string]any{auth.ClaimSubject: account.ID}, ttl)
	if err != nil {
		s.metrics.InternalFailure(metrics.ComponentToken)
		return model.TokenResponse{}, fmt.Errorf("issue token: %w", err)
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        account,
	}, nil
}

// ChangePassword replaces the digest of account after confirming the
// current password. account must be freshly loaded from the store.
func (s *AccountService) ChangePassword(ctx context.Context, account model.Account, req model.ChangePasswordRequest) error {
	if req.CurrentPassword == "" {
		return apierror.BadRequest("Current password is required.", "current_password")
	}
	if !s.hasher.Verify(req.CurrentPassword, account.PasswordHash) {
		return apierror.BadRequest("Current password is incorrect.", "current_password")
	}
	if req.NewPassword == req.CurrentPassword {
		return apierror.BadRequest("New password must differ from the current password.", "new_password")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	digest, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, account.ID, digest); err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return apierror.Wrap(err, "NOT_FOUND", "account not found", http.StatusNotFound)
		}
		s.metrics.InternalFailure(metrics.ComponentStore)
		return fmt.Errorf("update password: %w", err)
	}

	slog.Info("password changed", "account_id", account.ID)
	return nil
}

func (s *AccountService) hashPassword(password string) (string, error) {
	digest, err := s.hasher.Hash(password)
	if err == nil {
		return digest, nil
	}

	if errors.Is(err, auth.ErrInvalidPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apierror.Wrap(err, "BAD_REQUEST", err.Error(), http.StatusBadRequest)
	}

	s.metrics.InternalFailure(metrics.ComponentHasher)
	return "", fmt.Errorf("hash password: %w", err)
}

// conflictFor maps a uniqueness sentinel to the client-facing conflict, or
// returns nil for unrelated errors.
func conflictFor(err error) error {
	switch {
	case errors.Is(err, model.ErrUsernameTaken):
		return apierror.Wrap(err, "ALREADY_EXISTS", msgUsernameExists, http.StatusConflict)
	case errors.Is(err, model.ErrEmailTaken):
		return apierror.Wrap(err, "ALREADY_EXISTS", msgEmailExists, http.StatusConflict)
	case errors.Is(err, model.ErrAccountExists):
		return apierror.Wrap(err, "ALREADY_EXISTS", "Account already exists", http.StatusConflict)
	default:
		return nil
	}
}
