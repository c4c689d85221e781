package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleUser is the OpenID Connect userinfo response.
type GoogleUser struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleService implements [SocialProvider] for Google sign-in.
type GoogleService struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleService creates a Google provider from the configured OAuth2 client.
func NewGoogleService(cfg shared.GoogleConfig) (*GoogleService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: google client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: google client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/auth/google/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     endpoints.Google,
	}

	return &GoogleService{
		config:      config,
		userInfoURL: googleUserInfoURL,
		httpClient:  http.DefaultClient,
	}, nil
}

// WithEndpoint points the service at other token and userinfo servers.
func (s *GoogleService) WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) *GoogleService {
	s.config.Endpoint = endpoint
	s.userInfoURL = userInfoURL
	return s
}

// WithHTTPClient sets the client used for the token exchange and userinfo requests.
func (s *GoogleService) WithHTTPClient(client *http.Client) *GoogleService {
	s.httpClient = client
	return s
}

func (s *GoogleService) Name() string {
	return "google"
}

// RedirectURL returns the callback URL registered with Google.
func (s *GoogleService) RedirectURL() string {
	return s.config.RedirectURL
}

// AuthCodeURL returns the Google consent page URL.
func (s *GoogleService) AuthCodeURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades code for a token and fetches the user's profile with it.
func (s *GoogleService) Exchange(ctx context.Context, code string) (*models.SocialProfile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
	}

	user, err := s.UserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	return &models.SocialProfile{
		Provider: s.Name(),
		Subject:  user.Subject,
		Email:    user.Email,
		Name:     user.Name,
	}, nil
}

// UserInfo reads the OpenID profile of the token's owner.
func (s *GoogleService) UserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	client := s.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: google userinfo status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("%w: google account has no email", shared.ErrAuthFailed)
	}

	return &user, nil
}
