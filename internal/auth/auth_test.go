package auth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	users := SeedUsers()

	t.Run("unknown identifier", func(t *testing.T) {
		for _, id := range []string{"nobody", "demo@example.org", "", "admin "} {
			_, err := Authenticate(users, id, "admin123")
			assert.ErrorIs(t, err, ErrUserNotFound, "identifier %q", id)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := Authenticate(users, "admin", "wrong")
		require.ErrorIs(t, err, ErrWrongSecret)
		assert.Equal(t, "Incorrect password. Please try again.", err.Error())
	})

	t.Run("secret is case sensitive", func(t *testing.T) {
		_, err := Authenticate(users, "admin", "ADMIN123")
		assert.ErrorIs(t, err, ErrWrongSecret)
	})

	t.Run("identifier is case insensitive", func(t *testing.T) {
		rec, err := Authenticate(users, "DEMO@Example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, "Demo User", rec.DisplayName)
		assert.Equal(t, models.RoleUser, rec.Role)
	})

	t.Run("every seed user authenticates", func(t *testing.T) {
		for _, u := range users {
			rec, err := Authenticate(users, u.Identifier, u.Secret)
			require.NoError(t, err)
			assert.Equal(t, u, rec)
		}
	})

	t.Run("user not found message", func(t *testing.T) {
		_, err := Authenticate(users, "ghost", "whatever")
		assert.Equal(t, "User not found. Please check your username and try again.", err.Error())

		var authErr *AuthError
		require.True(t, errors.As(err, &authErr))
		assert.Equal(t, "Username not found.", authErr.ServerMessage())
	})
}

func TestDirectory(t *testing.T) {
	dir := NewDirectory()

	rec, err := dir.Authenticate("Admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, rec.Role)

	_, ok := dir.Lookup("JOHN.DOE@company.com")
	assert.True(t, ok)

	for _, u := range dir.Users() {
		assert.NotEmpty(t, u.DisplayName)
	}

	custom := NewDirectory(models.UserRecord{Identifier: "solo", Secret: "secret1", Role: models.RoleUser, DisplayName: "Solo"})
	_, err = custom.Authenticate("admin", "admin123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateIdentifier(t *testing.T) {
	tt := []struct {
		name  string
		input string
		want  error
	}{
		{name: "blank", input: "   ", want: &FieldError{Field: FieldIdentifier, Kind: Empty}},
		{name: "empty", input: "", want: &FieldError{Field: FieldIdentifier, Kind: Empty}},
		{name: "too short", input: "ab", want: &FieldError{Field: FieldIdentifier, Kind: TooShort}},
		{name: "trimmed too short", input: "  ab  ", want: &FieldError{Field: FieldIdentifier, Kind: TooShort}},
		{name: "bad email", input: "abc@def", want: &FieldError{Field: FieldIdentifier, Kind: BadEmailFormat}},
		{name: "bad email with space", input: "a b@c.de", want: &FieldError{Field: FieldIdentifier, Kind: BadEmailFormat}},
		{name: "valid email", input: "user@example.com"},
		{name: "valid username", input: "admin"},
		{name: "exactly three", input: "abc"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateIdentifier(tc.input)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("messages", func(t *testing.T) {
		assert.EqualError(t, ValidateIdentifier(""), "Username or email is required")
		assert.EqualError(t, ValidateIdentifier("ab"), "Username must be at least 3 characters long")
		assert.EqualError(t, ValidateIdentifier("abc@def"), "Please enter a valid email address")
	})
}

func TestValidateSecret(t *testing.T) {
	tt := []struct {
		input string
		kind  FieldKind
		ok    bool
	}{
		{input: "", kind: Empty},
		{input: "12345", kind: TooShort},
		{input: "123456", ok: true},
		{input: "      ", ok: true},
	}

	for _, tc := range tt {
		err := ValidateSecret(tc.input)
		if tc.ok {
			assert.NoError(t, err, "input %q", tc.input)
			continue
		}
		assert.ErrorIs(t, err, &FieldError{Field: FieldSecret, Kind: tc.kind}, "input %q", tc.input)
	}

	assert.EqualError(t, ValidateSecret(""), "Password is required")
	assert.EqualError(t, ValidateSecret("abc"), "Password must be at least 6 characters long")
}

func TestValidateEmail(t *testing.T) {
	assert.EqualError(t, ValidateEmail(" "), "Please enter your email address")
	assert.EqualError(t, ValidateEmail("nope"), "Please enter a valid email address")
	assert.NoError(t, ValidateEmail("demo@example.com"))
}

func TestHandoffSigner(t *testing.T) {
	user := models.PublicUser{Identifier: "admin", Role: models.RoleAdmin, DisplayName: "Admin User"}

	t.Run("round trip", func(t *testing.T) {
		signer := NewHandoffSigner("secret", time.Minute)

		token, err := signer.Sign(user)
		require.NoError(t, err)
		assert.NotContains(t, token, "admin123")

		got, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("wrong key", func(t *testing.T) {
		token, err := NewHandoffSigner("one", time.Minute).Sign(user)
		require.NoError(t, err)

		_, err = NewHandoffSigner("two", time.Minute).Verify(token)
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issued := time.Now().Add(-time.Hour)
		token, err := NewHandoffSigner("secret", time.Minute).WithClock(func() time.Time { return issued }).Sign(user)
		require.NoError(t, err)

		_, err = NewHandoffSigner("secret", time.Minute).Verify(token)
		assert.ErrorIs(t, err, shared.ErrTokenExpired)
	})

	t.Run("tampered payload", func(t *testing.T) {
		signer := NewHandoffSigner("secret", time.Minute)
		token, err := signer.Sign(user)
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		forged, err := NewHandoffSigner("secret", time.Minute).Sign(models.PublicUser{Identifier: "admin", Role: models.RoleUser, DisplayName: "x"})
		require.NoError(t, err)
		parts[1] = strings.Split(forged, ".")[1]

		_, err = signer.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		claims := HandoffClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    HandoffIssuer,
				Subject:   "admin",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
			Role: models.RoleAdmin,
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = NewHandoffSigner("secret", time.Minute).Verify(token)
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := NewHandoffSigner("secret", time.Minute).Verify("not.a.token")
		assert.ErrorIs(t, err, shared.ErrInvalidToken)
	})

	t.Run("requires identifier", func(t *testing.T) {
		_, err := NewHandoffSigner("secret", time.Minute).Sign(models.PublicUser{})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

type credentialMap map[string]*models.Credential

func (m credentialMap) GetByUsername(username string) (*models.Credential, error) {
	if c, ok := m[username]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("credential %q: %w", username, shared.ErrNotFound)
}

type brokenLookup struct{}

func (brokenLookup) GetByUsername(string) (*models.Credential, error) {
	return nil, errors.New("database is locked")
}

func TestCredentialChecker(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	store := credentialMap{"alice": models.NewCredential(1, "alice", hash, "Alice", models.RoleUser)}
	checker := NewCredentialChecker(store)

	t.Run("success trims username", func(t *testing.T) {
		cred, err := checker.Check("  alice ", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, "Alice", cred.Public().DisplayName)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := checker.Check("bob", "hunter22")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := checker.Check("alice", "hunter2")
		require.ErrorIs(t, err, ErrWrongSecret)

		var authErr *AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, "Incorrect password.", authErr.ServerMessage())
	})

	t.Run("lookup failure", func(t *testing.T) {
		_, err := NewCredentialChecker(brokenLookup{}).Check("alice", "hunter22")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}
