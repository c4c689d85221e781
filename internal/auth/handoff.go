package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// HandoffIssuer is the issuer claim of every handoff token.
const HandoffIssuer = "learndash"

// HandoffClaims carry the public fields of a logged in user from the login page to the dashboard.
type HandoffClaims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
	Name string      `json:"name"`
}

// HandoffSigner issues and verifies short-lived HS256 handoff tokens.
type HandoffSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewHandoffSigner creates a signer using secret with tokens valid for ttl.
func NewHandoffSigner(secret string, ttl time.Duration) *HandoffSigner {
	return &HandoffSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the signer's time source.
func (s *HandoffSigner) WithClock(now func() time.Time) *HandoffSigner {
	s.now = now
	return s
}

// TTL returns how long issued tokens stay valid.
func (s *HandoffSigner) TTL() time.Duration {
	return s.ttl
}

// Sign issues a token for user. The secret never enters the claims.
func (s *HandoffSigner) Sign(user models.PublicUser) (string, error) {
	if user.Identifier == "" {
		return "", fmt.Errorf("%w: handoff requires an identifier", shared.ErrInvalidInput)
	}

	now := s.now()
	claims := HandoffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    HandoffIssuer,
			Subject:   user.Identifier,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role: user.Role,
		Name: user.DisplayName,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign handoff token: %w", err)
	}
	return token, nil
}

// Verify checks the signature, issuer and expiry of token and returns the user it carries.
//
// Expired tokens yield [shared.ErrTokenExpired], anything else malformed [shared.ErrInvalidToken].
func (s *HandoffSigner) Verify(token string) (models.PublicUser, error) {
	claims := &HandoffClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(HandoffIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.PublicUser{}, shared.ErrTokenExpired
		}
		return models.PublicUser{}, fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return models.PublicUser{}, shared.ErrInvalidToken
	}

	return models.PublicUser{Identifier: claims.Subject, Role: claims.Role, DisplayName: claims.Name}, nil
}
