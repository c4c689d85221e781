package server

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/services"
)

// OAuthResult contains the result of a social login callback.
type OAuthResult struct {
	Profile *models.SocialProfile
	err     error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles a single OAuth2 callback for the CLI login flow.
// Implements the Handler interface for registration with a Router.
type OAuthHandler struct {
	provider    services.SocialProvider
	path        string
	state       string
	resultChan  chan OAuthResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

var _ Handler = (*OAuthHandler)(nil)

// NewOAuthHandler creates a callback handler for provider served at path, expecting state.
// The state token should be cryptographically random for CSRF protection.
func NewOAuthHandler(provider services.SocialProvider, path, state string) *OAuthHandler {
	return &OAuthHandler{
		provider:   provider,
		path:       path,
		state:      state,
		resultChan: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the OAuth callback request.
//
// Validates the state parameter, exchanges the authorization code for the user's profile, and sends the
// result through the result channel.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	profile, err := Callback(r.Context(), h.provider, h.state, r)
	if err != nil {
		h.Send(OAuthResult{err: err})
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Send(OAuthResult{Profile: profile})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Sign-In Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #4f46e5; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Welcome, %s</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`, html.EscapeString(profile.Public().DisplayName))
}

// Callback validates the state and code of an OAuth callback request and exchanges the code with provider.
func Callback(ctx context.Context, provider services.SocialProvider, wantState string, r *http.Request) (*models.SocialProfile, error) {
	query := r.URL.Query()

	if wantState == "" || query.Get("state") != wantState {
		return nil, fmt.Errorf("invalid state parameter")
	}

	code := query.Get("code")
	if code == "" {
		return nil, fmt.Errorf("authorization failed: %s - %s", query.Get("error"), query.Get("error_description"))
	}

	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return profile, nil
}

// Send sends the OAuth result through the channel (only once).
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving OAuth flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.resultChan
}
