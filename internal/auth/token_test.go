package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) (*TokenCodec, *SettingsStore) {
	t.Helper()

	settings := NewSettingsStore(Settings{
		Secret:    []byte("test-secret"),
		Algorithm: "HS256",
		AccessTTL: 30 * time.Minute,
	})
	return NewTokenCodec(settings), settings
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// tamper replaces the final character of the signature segment.
func tamper(token string) string {
	raw := []byte(token)
	last := len(raw) - 1
	if raw[last] == 'a' {
		raw[last] = 'b'
	} else {
		raw[last] = 'a'
	}
	return string(raw)
}

func TestTokenCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	token, err := codec.Issue(map[string]any{"sub": "42", "scope": "calc"})
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "42", claims["sub"])
	require.Equal(t, "calc", claims["scope"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), exp.Time, 5*time.Second)
}

func TestTokenCodecStringifiesSubject(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	token, err := codec.IssueWithTTL(map[string]any{"sub": int64(7)}, time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "7", claims["sub"])
}

func TestTokenCodecDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)
	input := map[string]any{"sub": 1}

	_, err := codec.Issue(input)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"sub": 1}, input)
}

func TestTokenCodecRejectsExpiredAndTamperedAlike(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	expired, err := codec.IssueWithTTL(map[string]any{"sub": "1"}, -time.Second)
	require.NoError(t, err)
	_, expiredErr := codec.Verify(expired)

	valid, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)
	_, tamperedErr := codec.Verify(tamper(valid))

	require.ErrorIs(t, expiredErr, ErrInvalidOrExpiredToken)
	require.ErrorIs(t, tamperedErr, ErrInvalidOrExpiredToken)
	require.Equal(t, expiredErr, tamperedErr)
	require.NotErrorIs(t, expiredErr, ErrTokenDecode)
}

func TestTokenCodecRejectsEveryTrailingCharacterChange(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	valid, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)

	last := len(valid) - 1
	for _, replacement := range base64URLAlphabet {
		if byte(replacement) == valid[last] {
			continue
		}
		mutated := valid[:last] + string(replacement)

		_, err := codec.Verify(mutated)
		require.ErrorIs(t, err, ErrInvalidOrExpiredToken, "last character %q -> %q", valid[last], replacement)
		require.NotErrorIs(t, err, ErrTokenDecode)
	}
}

func TestTokenCodecDropsEmptySubject(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	for _, sub := range []any{nil, ""} {
		token, err := codec.Issue(map[string]any{"sub": sub})
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		require.NotContains(t, claims, "sub")
	}
}

func TestTokenCodecRejectsInvalidTokens(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	otherAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"three dots":   "a.b.c",
		"wrong secret": foreign,
		"wrong alg":    otherAlg,
		"missing exp":  noExpiry,
		"alg none":     unsigned,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			claims, err := codec.Verify(token)
			require.Nil(t, claims)
			require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
		})
	}
}

func TestTokenCodecSecretRotation(t *testing.T) {
	t.Parallel()

	codec, settings := newTestCodec(t)

	token, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)

	settings.Reload(Settings{Secret: []byte("rotated"), Algorithm: "HS256", AccessTTL: time.Minute})

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	require.Equal(t, time.Minute, codec.TTL())

	fresh, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)
	_, err = codec.Verify(fresh)
	require.NoError(t, err)
}

func TestTokenCodecIssuanceFailure(t *testing.T) {
	t.Parallel()

	unknown := NewTokenCodec(NewSettingsStore(Settings{Secret: []byte("k"), Algorithm: "XX999", AccessTTL: time.Minute}))
	_, err := unknown.Issue(map[string]any{"sub": "1"})
	require.ErrorIs(t, err, ErrTokenIssuance)

	// RS256 needs an RSA private key, not an HMAC secret.
	mismatched := NewTokenCodec(NewSettingsStore(Settings{Secret: []byte("k"), Algorithm: "RS256", AccessTTL: time.Minute}))
	_, err = mismatched.Issue(map[string]any{"sub": "1"})
	require.ErrorIs(t, err, ErrTokenIssuance)
	require.EqualError(t, ErrTokenIssuance, "JWT creation failed")
}

func TestTokenCodecDecodeFailureIsDistinct(t *testing.T) {
	t.Parallel()

	codec, _ := newTestCodec(t)
	token, err := codec.Issue(map[string]any{"sub": "1"})
	require.NoError(t, err)

	codec.now = func() time.Time { panic("clock unavailable") }

	claims, err := codec.Verify(token)
	require.Nil(t, claims)
	require.ErrorIs(t, err, ErrTokenDecode)
	require.NotErrorIs(t, err, ErrInvalidOrExpiredToken)
}
