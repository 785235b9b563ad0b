package service

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"go-calc-auth/internal/model"
	"go-calc-auth/internal/util"
	"go-calc-auth/pkg/apierror"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	maxNameLen     = 100
	minPasswordLen = 6
	// bcrypt only reads the first 72 bytes.
	maxPasswordLen = 72
)

// normalizeRegistration trims the identity fields, fills default names and
// rejects anything that would not make a usable account.
func normalizeRegistration(req model.RegisterRequest) (model.RegisterRequest, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = util.CleanText(req.FirstName)
	req.LastName = util.CleanText(req.LastName)

	// Hidden characters would allow visually identical usernames.
	if util.HasHiddenCharacters(req.Username) || util.HasHiddenCharacters(req.Email) {
		return req, apierror.BadRequest("Username and email must not contain hidden characters.", "")
	}

	if req.FirstName == "" {
		req.FirstName = model.DefaultName
	}
	if req.LastName == "" {
		req.LastName = model.DefaultName
	}
	if utf8.RuneCountInString(req.FirstName) > maxNameLen {
		return req, apierror.BadRequest("First name must be at most 100 characters long.", "first_name")
	}
	if utf8.RuneCountInString(req.LastName) > maxNameLen {
		return req, apierror.BadRequest("Last name must be at most 100 characters long.", "last_name")
	}

	if n := utf8.RuneCountInString(req.Username); n < minUsernameLen || n > maxUsernameLen {
		return req, apierror.BadRequest("Username must be between 3 and 50 characters long.", "username")
	}

	if !validEmail(req.Email) {
		return req, apierror.BadRequest("A valid email address is required.", "email")
	}

	if err := validatePassword(req.Password); err != nil {
		return req, err
	}

	return req, nil
}

// validEmail accepts a bare address only; display names are rejected.
func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}

func validatePassword(password string) error {
	if password == "" {
		return apierror.BadRequest("Password is required.", "password")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apierror.BadRequest("Password must be at least 6 characters long.", "password")
	}
	if len(password) > maxPasswordLen {
		return apierror.BadRequest("Password must be at most 72 bytes long.", "password")
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	switch {
	case !lower:
		return apierror.BadRequest("Password must contain at least one lowercase letter.", "password")
	case !upper:
		return apierror.BadRequest("Password must contain at least one uppercase letter.", "password")
	case !digit:
		return apierror.BadRequest("Password must contain at least one numeric digit.", "password")
	}

	return nil
}
