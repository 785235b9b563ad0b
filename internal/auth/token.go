package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const ClaimSubject = "sub"

// validityErrors are the parser outcomes that mean "this token is not
// acceptable". All of them collapse into ErrInvalidOrExpiredToken.
var validityErrors = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenExpired,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidClaims,
}

type TokenCodec struct {
	settings *SettingsStore
	now      func() time.Time
}

func NewTokenCodec(settings *SettingsStore) *TokenCodec {
	return &TokenCodec{settings: settings, now: time.Now}
}

// TTL is the lifetime Issue applies to new tokens.
func (c *TokenCodec) TTL() time.Duration {
	return c.settings.Current().AccessTTL
}

func (c *TokenCodec) Issue(claims map[string]any) (string, error) {
	return c.IssueWithTTL(claims, c.TTL())
}

// IssueWithTTL signs a copy of claims that expires ttl from now. A non-string
// subject is converted to its string form; a nil or empty one is dropped.
func (c *TokenCodec) IssueWithTTL(claims map[string]any, ttl time.Duration) (string, error) {
	settings := c.settings.Current()

	payload := make(jwt.MapClaims, len(claims)+2)
	for key, value := range claims {
		payload[key] = value
	}
	switch sub := payload[ClaimSubject].(type) {
	case nil:
		delete(payload, ClaimSubject)
	case string:
		if sub == "" {
			delete(payload, ClaimSubject)
		}
	default:
		payload[ClaimSubject] = fmt.Sprint(sub)
	}

	now := c.now()
	payload["iat"] = now.Unix()
	payload["exp"] = now.Add(ttl).Unix()

	method := jwt.GetSigningMethod(settings.Algorithm)
	if method == nil {
		return "", fmt.Errorf("%w: unknown signing algorithm %q", ErrTokenIssuance, settings.Algorithm)
	}

	signed, err := jwt.NewWithClaims(method, payload).SignedString(settings.Secret)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenIssuance, err)
	}

	return signed, nil
}

// Verify checks signature, algorithm and expiry, returning the claims on
// success. Every rejection of the token itself is ErrInvalidOrExpiredToken;
// ErrTokenDecode is reserved for failures unrelated to the token's validity.
func (c *TokenCodec) Verify(token string) (claims jwt.MapClaims, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			claims = nil
			err = fmt.Errorf("%w: %v", ErrTokenDecode, recovered)
		}
	}()

	settings := c.settings.Current()

	parsed, err := jwt.Parse(token,
		func(*jwt.Token) (any, error) { return settings.Secret, nil },
		jwt.WithValidMethods([]string{settings.Algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if isValidityError(err) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("%w: %w", ErrTokenDecode, err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", ErrTokenDecode, parsed.Claims)
	}
	if !parsed.Valid {
		return nil, ErrInvalidOrExpiredToken
	}

	return mapClaims, nil
}

func isValidityError(err error) bool {
	for _, target := range validityErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
