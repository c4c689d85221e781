package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinIdentifierLength = 3
	MinSecretLength     = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidateIdentifier checks a username or email after trimming surrounding whitespace.
//
// Anything containing '@' must also be a well-formed email.
func ValidateIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)

	switch {
	case identifier == "":
		return &FieldError{Field: FieldIdentifier, Kind: Empty}
	case utf8.RuneCountInString(identifier) < MinIdentifierLength:
		return &FieldError{Field: FieldIdentifier, Kind: TooShort}
	case strings.Contains(identifier, "@") && !IsEmail(identifier):
		return &FieldError{Field: FieldIdentifier, Kind: BadEmailFormat}
	}
	return nil
}

// ValidateSecret checks a password. It is not trimmed.
func ValidateSecret(secret string) error {
	switch {
	case secret == "":
		return &FieldError{Field: FieldSecret, Kind: Empty}
	case utf8.RuneCountInString(secret) < MinSecretLength:
		return &FieldError{Field: FieldSecret, Kind: TooShort}
	}
	return nil
}

// ValidateEmail checks the address entered on the forgot-password form.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &FieldError{Field: FieldEmail, Kind: Empty}
	}
	if !IsEmail(email) {
		return &FieldError{Field: FieldEmail, Kind: BadEmailFormat}
	}
	return nil
}
