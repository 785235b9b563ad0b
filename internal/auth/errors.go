package auth

import "errors"

// Messages are part of the HTTP contract and must stay stable.
var (
	ErrInvalidPassword = errors.New("Password must be a non-empty string")
	ErrPasswordTooLong = errors.New("Password must be at most 72 bytes")
	ErrHashingFailed   = errors.New("Password hashing failed")

	ErrTokenIssuance         = errors.New("JWT creation failed")
	ErrInvalidOrExpiredToken = errors.New("Invalid or expired token")
	ErrTokenDecode           = errors.New("Token decode failure")

	ErrUnauthenticated = errors.New("unauthenticated")
)

const (
	ReasonMissingToken    = "missing or invalid token"
	ReasonInvalidToken    = "invalid or expired token"
	ReasonMissingSubject  = "missing subject"
	ReasonAccountNotFound = "account not found"
)

// UnauthenticatedError is returned by Guard for every rejected token. Reason
// is safe to show to clients; Err keeps the underlying cause for logs.
type UnauthenticatedError struct {
	Reason string
	Err    error
}

func (e *UnauthenticatedError) Error() string {
	return e.Reason
}

func (e *UnauthenticatedError) Unwrap() error {
	return e.Err
}

func (e *UnauthenticatedError) Is(target error) bool {
	return target == ErrUnauthenticated
}

func unauthenticated(reason string, cause error) *UnauthenticatedError {
	return &UnauthenticatedError{Reason: reason, Err: cause}
}
