package model

import (
	"errors"
	"fmt"
)

var (
	// Account related errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrUsernameTaken      = fmt.Errorf("%w: username", ErrAccountExists)
	ErrEmailTaken         = fmt.Errorf("%w: email", ErrAccountExists)
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
)
