package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-calc-auth/internal/auth"
	"go-calc-auth/internal/metrics"
	"go-calc-auth/internal/model"
)

type accountResolver interface {
	Resolve(ctx context.Context, token string) (model.Account, error)
}

type contextKey string

const accountContextKey contextKey = "account"

type AuthMiddleware struct {
	resolver accountResolver
	metrics  *metrics.Metrics
}

func NewAuthMiddleware(resolver accountResolver, m *metrics.Metrics) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver, metrics: m}
}

// RequireAuth resolves the bearer token to an account and stores it in the
// request context. Every guard rejection is a 401 whose message is the
// rejection reason.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := m.resolver.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			var rejected *auth.UnauthenticatedError
			if errors.As(err, &rejected) {
				if errors.Is(err, auth.ErrTokenDecode) {
					m.metrics.InternalFailure(metrics.ComponentToken)
				}
				m.metrics.GuardRejected(rejected.Reason)
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeErrorBody(w, http.StatusUnauthorized, "UNAUTHORIZED", rejected.Reason)
				return
			}

			slog.Error("session guard failed", "error", err, "path", r.URL.Path)
			m.metrics.InternalFailure(metrics.ComponentStore)
			writeErrorBody(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected server error")
			return
		}

		traceAccount(r.Context(), account.ID)
		next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
	})
}

func AccountFromContext(ctx context.Context) (model.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(model.Account)
	return account, ok
}

// WithAccount returns a copy of ctx carrying account.
func WithAccount(ctx context.Context, account model.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// bearerToken returns the credential of an "Authorization: Bearer" header,
// or "" when the header is absent or uses another scheme.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
