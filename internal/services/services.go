// package services defines interface SocialProvider for third-party login providers
//
// Google (OAuth2 authorization code flow)
package services

import (
	"context"

	"github.com/desertthunder/learndash/internal/models"
)

// SocialProvider is a third-party identity provider using the OAuth2 authorization code flow.
type SocialProvider interface {
	// Name returns the provider key used in routes (e.g. "google").
	Name() string

	// AuthCodeURL returns the consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (*models.SocialProfile, error)
}
