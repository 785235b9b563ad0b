package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"go-calc-auth/internal/model"
)

type stubVerifier struct {
	claims jwt.MapClaims
	err    error
}

func (s stubVerifier) Verify(string) (jwt.MapClaims, error) {
	return s.claims, s.err
}

func newGuardFixture(t *testing.T) (*Guard, *TokenCodec, *fakeAccounts) {
	t.Helper()

	codec, _ := newTestCodec(t)
	store := &fakeAccounts{accounts: []model.Account{
		{ID: 1, Username: "alice", Email: "alice@x.com", IsActive: true},
		{ID: 2, Username: "bob", Email: "bob@x.com", IsActive: false},
	}}

	return NewGuard(codec, store), codec, store
}

func requireReason(t *testing.T, err error, reason string) {
	t.Helper()

	require.ErrorIs(t, err, ErrUnauthenticated)
	var unauth *UnauthenticatedError
	require.True(t, errors.As(err, &unauth))
	require.Equal(t, reason, unauth.Reason)
	require.EqualError(t, err, reason)
}

func TestGuardResolvesValidToken(t *testing.T) {
	t.Parallel()

	guard, codec, _ := newGuardFixture(t)

	token, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)

	account, err := guard.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)
}

func TestGuardFailureReasons(t *testing.T) {
	t.Parallel()

	guard, codec, _ := newGuardFixture(t)

	expired, err := codec.IssueWithTTL(map[string]any{"sub": "1"}, -time.Second)
	require.NoError(t, err)
	noSubject, err := codec.Issue(map[string]any{"scope": "calc"})
	require.NoError(t, err)
	blankSubject, err := codec.Issue(map[string]any{"sub": "  "})
	require.NoError(t, err)
	nilSubject, err := codec.Issue(map[string]any{"sub": nil})
	require.NoError(t, err)
	unknown, err := codec.Issue(map[string]any{"sub": "999"})
	require.NoError(t, err)
	nonNumeric, err := codec.Issue(map[string]any{"sub": "alice"})
	require.NoError(t, err)
	inactive, err := codec.Issue(map[string]any{"sub": "2"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		reason string
	}{
		{name: "empty", token: "", reason: ReasonMissingToken},
		{name: "whitespace", token: "   ", reason: ReasonMissingToken},
		{name: "garbage", token: "abc.def.ghi", reason: ReasonInvalidToken},
		{name: "expired", token: expired, reason: ReasonInvalidToken},
		{name: "no subject", token: noSubject, reason: ReasonMissingSubject},
		{name: "blank subject", token: blankSubject, reason: ReasonMissingSubject},
		{name: "nil subject", token: nilSubject, reason: ReasonMissingSubject},
		{name: "unknown account", token: unknown, reason: ReasonAccountNotFound},
		{name: "non numeric subject", token: nonNumeric, reason: ReasonAccountNotFound},
		{name: "inactive account", token: inactive, reason: ReasonAccountNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := guard.Resolve(context.Background(), tc.token)
			requireReason(t, err, tc.reason)
		})
	}
}

func TestGuardSkipsStoreForRejectedTokens(t *testing.T) {
	t.Parallel()

	guard, _, store := newGuardFixture(t)

	_, err := guard.Resolve(context.Background(), "")
	requireReason(t, err, ReasonMissingToken)
	_, err = guard.Resolve(context.Background(), "abc.def.ghi")
	requireReason(t, err, ReasonInvalidToken)

	require.Zero(t, store.lookups)
}

func TestGuardKeepsDecodeFailureInChain(t *testing.T) {
	t.Parallel()

	store := &fakeAccounts{}
	guard := NewGuard(stubVerifier{err: ErrTokenDecode}, store)

	_, err := guard.Resolve(context.Background(), "token")
	requireReason(t, err, ReasonInvalidToken)
	require.ErrorIs(t, err, ErrTokenDecode)
}

func TestGuardRejectsNonStringSubject(t *testing.T) {
	t.Parallel()

	guard := NewGuard(stubVerifier{claims: jwt.MapClaims{"sub": 1.0}}, &fakeAccounts{})

	_, err := guard.Resolve(context.Background(), "token")
	requireReason(t, err, ReasonMissingSubject)
}

func TestGuardReturnsStoreFailureAsInternal(t *testing.T) {
	t.Parallel()

	guard, codec, store := newGuardFixture(t)
	store.err = errStoreDown

	token, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)

	_, err = guard.Resolve(context.Background(), token)
	require.ErrorIs(t, err, errStoreDown)
	require.NotErrorIs(t, err, ErrUnauthenticated)
}
