package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"golang.org/x/crypto/bcrypt"
)

// CredentialLookup finds a server-side credential by username.
// Implementations return an error wrapping [shared.ErrNotFound] when none exists.
type CredentialLookup interface {
	GetByUsername(username string) (*models.Credential, error)
}

// CredentialChecker verifies a username and password against hashed server-side credentials.
//
// It shares no records with the seed list used by [Authenticate].
type CredentialChecker struct {
	store CredentialLookup
}

// NewCredentialChecker creates a [CredentialChecker] reading from store.
func NewCredentialChecker(store CredentialLookup) *CredentialChecker {
	return &CredentialChecker{store: store}
}

// Check looks up the trimmed username and compares password to its bcrypt hash.
func (c *CredentialChecker) Check(username, password string) (*models.Credential, error) {
	username = strings.TrimSpace(username)

	cred, err := c.store.GetByUsername(username)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash()), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, ErrWrongSecret
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	return cred, nil
}

// HashPassword returns the bcrypt hash of password at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
