package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	for _, password := range []string{"Secret123", "p", "pässwörd ünïcode", strings.Repeat("x", 72)} {
		digest, err := hasher.Hash(password)
		require.NoError(t, err)
		require.NotEqual(t, password, digest)
		require.True(t, hasher.Verify(password, digest), password)
	}
}

func TestHasherSaltsEveryDigest(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	first, err := hasher.Hash("Secret123")
	require.NoError(t, err)
	second, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, hasher.Verify("Secret123", first))
	require.True(t, hasher.Verify("Secret123", second))
}

func TestHasherRejectsDifferentPassword(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)
	digest, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	require.False(t, hasher.Verify("Secret124", digest))
	require.False(t, hasher.Verify("secret123", digest))
}

func TestHasherValidatesInput(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)

	_, err := hasher.Hash("")
	require.ErrorIs(t, err, ErrInvalidPassword)
	require.EqualError(t, err, "Password must be a non-empty string")

	_, err = hasher.Hash("   ")
	require.ErrorIs(t, err, ErrInvalidPassword)

	_, err = hasher.Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasherVerifyNeverFails(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost)
	digest, err := hasher.Hash("Secret123")
	require.NoError(t, err)

	cases := []struct {
		name      string
		plaintext string
		digest    string
	}{
		{name: "empty plaintext", plaintext: "", digest: digest},
		{name: "empty digest", plaintext: "Secret123", digest: ""},
		{name: "not a bcrypt digest", plaintext: "Secret123", digest: "plain-text-password"},
		{name: "truncated digest", plaintext: "Secret123", digest: digest[:20]},
		{name: "both empty", plaintext: "", digest: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, hasher.Verify(tc.plaintext, tc.digest))
			})
		})
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	t.Parallel()

	require.Equal(t, bcrypt.MinCost, NewHasher(0).Cost())
	require.Equal(t, bcrypt.MaxCost, NewHasher(99).Cost())
	require.Equal(t, 10, NewHasher(10).Cost())
}
