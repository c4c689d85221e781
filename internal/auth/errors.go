package auth

import "fmt"

// Field names an input of the login, signup or reset forms.
type Field string

const (
	FieldIdentifier Field = "username"
	FieldSecret     Field = "password"
	FieldEmail      Field = "email"
)

// FieldKind classifies why a field failed validation.
type FieldKind int

const (
	Empty FieldKind = iota
	TooShort
	BadEmailFormat
)

func (k FieldKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case TooShort:
		return "too_short"
	case BadEmailFormat:
		return "bad_email_format"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// FieldError reports a single form field that failed validation.
// Its Error text is the message shown next to the field.
type FieldError struct {
	Field Field
	Kind  FieldKind
}

func (e *FieldError) Error() string {
	switch e.Kind {
	case Empty:
		switch e.Field {
		case FieldIdentifier:
			return "Username or email is required"
		case FieldSecret:
			return "Password is required"
		default:
			return "Please enter your email address"
		}
	case TooShort:
		if e.Field == FieldSecret {
			return fmt.Sprintf("Password must be at least %d characters long", MinSecretLength)
		}
		return fmt.Sprintf("Username must be at least %d characters long", MinIdentifierLength)
	case BadEmailFormat:
		return "Please enter a valid email address"
	}
	return "invalid " + string(e.Field)
}

// Is matches another *FieldError with the same field and kind.
func (e *FieldError) Is(target error) bool {
	t, ok := target.(*FieldError)
	return ok && t.Field == e.Field && t.Kind == e.Kind
}

// AuthKind classifies a failed credential check.
type AuthKind int

const (
	UserNotFound AuthKind = iota
	WrongSecret
)

// AuthError is returned by [Authenticate] and [CredentialChecker.Check].
type AuthError struct {
	Kind AuthKind
}

var (
	ErrUserNotFound = &AuthError{Kind: UserNotFound}
	ErrWrongSecret  = &AuthError{Kind: WrongSecret}
)

// Error returns the message the login form alerts.
func (e *AuthError) Error() string {
	if e.Kind == UserNotFound {
		return "User not found. Please check your username and try again."
	}
	return "Incorrect password. Please try again."
}

// ServerMessage returns the shorter wording used by the server-side login page.
func (e *AuthError) ServerMessage() string {
	if e.Kind == UserNotFound {
		return "Username not found."
	}
	return "Incorrect password."
}

func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}
