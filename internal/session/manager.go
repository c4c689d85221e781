package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/storage"
)

// ErrSubmitInProgress is returned when Submit is called while a login is already being checked.
var ErrSubmitInProgress = errors.New("login already in progress")

// DashboardPath is where a successful login navigates to.
const DashboardPath = "/dashboard"

// Phase is the state of the login flow.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// MarshalText renders the phase name, so it reads as a string in JSON.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Timing holds the simulated latencies of the flows.
type Timing struct {
	Login    time.Duration
	Redirect time.Duration
	Navigate time.Duration
	Reset    time.Duration
}

// TimingFromConfig reads the delays from the [shared.AuthConfig].
func TimingFromConfig(cfg shared.AuthConfig) Timing {
	return Timing{
		Login:    cfg.LoginDelay.Duration,
		Redirect: cfg.RedirectDelay.Duration,
		Navigate: cfg.NavigateDelay.Duration,
		Reset:    cfg.ResetDelay.Duration,
	}
}

// LoginForm is the submitted login form.
type LoginForm struct {
	Identifier string
	Secret     string
	Remember   bool
}

// LoginResult describes where a Submit call ended.
type LoginResult struct {
	Phase    Phase              `json:"phase"`
	User     *models.PublicUser `json:"user,omitempty"`
	Token    string             `json:"-"`
	Redirect string             `json:"redirect,omitempty"`
}

// Options configures a [Manager]. Store, Directory and Signer are required.
type Options struct {
	Store     storage.Store
	Directory *auth.Directory
	Signer    *auth.HandoffSigner
	Presenter Presenter
	Logger    *log.Logger
	Timing    Timing
	// Wait defaults to [shared.Wait].
	Wait func(ctx context.Context, d time.Duration) error
	// HashPassword defaults to [auth.HashPassword].
	HashPassword func(password string) (string, error)
}

// flow is the state shared by a [Manager] and the views returned by [Manager.WithPresenter].
type flow struct {
	mu    sync.Mutex
	state *models.SessionState
	phase Phase
}

// Manager owns the [models.SessionState] of one client and runs the login, favorites and account flows.
//
// All methods are safe for concurrent use. Delays never hold the lock.
type Manager struct {
	*flow
	store     storage.Store
	directory *auth.Directory
	signer    *auth.HandoffSigner
	presenter Presenter
	logger    *log.Logger
	timing    Timing
	wait      func(ctx context.Context, d time.Duration) error
	hash      func(password string) (string, error)
}

// NewManager creates a [Manager] with an empty, unauthenticated state.
func NewManager(opts Options) *Manager {
	m := &Manager{
		flow:      &flow{state: models.NewSessionState(), phase: Idle},
		store:     opts.Store,
		directory: opts.Directory,
		signer:    opts.Signer,
		presenter: opts.Presenter,
		logger:    opts.Logger,
		timing:    opts.Timing,
		wait:      opts.Wait,
		hash:      opts.HashPassword,
	}

	if m.presenter == nil {
		m.presenter = nopPresenter{}
	}
	if m.logger == nil {
		m.logger = shared.NewLogger(nil)
	}
	if m.wait == nil {
		m.wait = shared.Wait
	}
	if m.hash == nil {
		m.hash = auth.HashPassword
	}
	if m.directory == nil {
		m.directory = auth.NewDirectory()
	}
	return m
}

// WithPresenter returns a view of m that reports to p instead of m's presenter.
//
// The view shares m's state and lock, so a Submit running through one view is seen by all others.
// A nil p discards the effects.
func (m *Manager) WithPresenter(p Presenter) *Manager {
	if p == nil {
		p = nopPresenter{}
	}
	view := *m
	view.presenter = p
	return &view
}

// Phase returns the current login phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// CurrentUser returns the logged in user's public fields, if any.
func (m *Manager) CurrentUser() (models.PublicUser, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.CurrentUser == nil {
		return models.PublicUser{}, false
	}
	return m.state.CurrentUser.Public(), true
}

// RememberedIdentifier returns the identifier to prefill, or "" when none is remembered.
func (m *Manager) RememberedIdentifier() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.RememberedIdentifier
}

// Greet shows the hint alert of the login page.
func (m *Manager) Greet() {
	m.presenter.ShowAlert(AlertInfo, "Welcome! Use demo credentials to test the login system.")
}

// Load reads the remembered identifier and favorites from the store.
//
// The identifier is only restored when both remembered keys are present; otherwise both are erased.
// Read and parse failures are logged and leave the defaults in place.
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	identifier, ok, err := storage.LoadRemembered(ctx, m.store)
	switch {
	case err != nil:
		m.logger.Warn("could not load saved credentials", "error", err)
	case ok:
		m.state.RememberedIdentifier = identifier
	default:
		m.state.RememberedIdentifier = ""
		if err := storage.ClearRemembered(ctx, m.store); err != nil {
			m.logger.Warn("could not clear saved credentials", "error", err)
		}
	}

	favorites, err := storage.LoadFavorites(ctx, m.store)
	if err != nil {
		m.logger.Warn("could not load favorites", "error", err)
	}
	m.state.Favorites = favorites
}

// Submit runs the login flow for form.
//
// Invalid input shows field errors and returns them joined, with the phase left at Idle. A failed credential
// check alerts the [auth.AuthError] message, shakes the form and returns the error with phase Failed.
// On success the remember preference is persisted, the welcome and redirect alerts are shown and the
// presenter navigates to the dashboard with a signed handoff token.
//
// Cancelling ctx during the login delay abandons the attempt. Cancelling it after the credential check
// keeps the user logged in but skips navigation.
func (m *Manager) Submit(ctx context.Context, form LoginForm) (*LoginResult, error) {
	m.mu.Lock()
	if m.phase == Validating || m.phase == Submitting {
		m.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	m.phase = Validating
	m.presenter.ClearAll()

	identifier := strings.TrimSpace(form.Identifier)
	if err := m.validate(identifier, form.Secret); err != nil {
		m.phase = Idle
		m.mu.Unlock()
		return &LoginResult{Phase: Idle}, err
	}

	m.phase = Submitting
	m.presenter.SetLoading(true)
	m.mu.Unlock()

	if err := m.wait(ctx, m.timing.Login); err != nil {
		m.mu.Lock()
		m.presenter.SetLoading(false)
		m.phase = Idle
		m.mu.Unlock()
		return nil, err
	}

	m.mu.Lock()
	record, err := m.directory.Authenticate(identifier, form.Secret)
	if err != nil {
		m.phase = Failed
		m.presenter.ShowAlert(AlertError, err.Error())
		m.presenter.Shake()
		m.presenter.SetLoading(false)
		m.mu.Unlock()

		m.logger.Warn("login failed", "identifier", identifier, "error", err)
		return &LoginResult{Phase: Failed}, err
	}

	user := record.Public()
	token, err := m.signer.Sign(user)
	if err != nil {
		m.phase = Idle
		m.presenter.SetLoading(false)
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to sign handoff: %w", err)
	}

	m.persistRemember(ctx, identifier, form.Remember)
	if err := storage.SaveSession(ctx, m.store, token); err != nil {
		m.logger.Warn("could not save session", "error", err)
	}

	m.state.CurrentUser = &record
	m.phase = Success
	m.presenter.ShowAlert(AlertSuccess, fmt.Sprintf("Welcome back, %s!", record.DisplayName))
	m.presenter.SetLoading(false)
	m.mu.Unlock()

	m.logger.Info("login succeeded", "identifier", record.Identifier, "role", record.Role)

	result := &LoginResult{Phase: Success, User: &user, Token: token, Redirect: HandoffURL(token)}
	if err := m.redirect(ctx, result.Redirect); err != nil {
		return result, err
	}
	return result, nil
}

func (m *Manager) validate(identifier, secret string) error {
	var errs []error
	if err := auth.ValidateIdentifier(identifier); err != nil {
		m.showFieldError(err)
		errs = append(errs, err)
	}
	if err := auth.ValidateSecret(secret); err != nil {
		m.showFieldError(err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (m *Manager) showFieldError(err error) {
	var fieldErr *auth.FieldError
	if errors.As(err, &fieldErr) {
		m.presenter.ShowFieldError(fieldErr.Field, fieldErr.Error())
	}
}

func (m *Manager) persistRemember(ctx context.Context, identifier string, remember bool) {
	if remember {
		if err := storage.SaveRemembered(ctx, m.store, identifier); err != nil {
			m.logger.Warn("could not save credentials", "error", err)
		}
		m.state.RememberedIdentifier = identifier
		return
	}

	if err := storage.ClearRemembered(ctx, m.store); err != nil {
		m.logger.Warn("could not clear saved credentials", "error", err)
	}
	m.state.RememberedIdentifier = ""
}

// redirect shows the redirect alert and navigates after the configured delays.
func (m *Manager) redirect(ctx context.Context, target string) error {
	if err := m.wait(ctx, m.timing.Redirect); err != nil {
		return err
	}
	m.presenter.ShowAlert(AlertSuccess, "Redirecting to dashboard...")

	if err := m.wait(ctx, m.timing.Navigate); err != nil {
		return err
	}
	m.presenter.Navigate(target)
	return nil
}

// HandoffURL is the dashboard location carrying token.
func HandoffURL(token string) string {
	return DashboardPath + "?user=" + url.QueryEscape(token)
}

// InputChanged clears the error shown for field and returns a failed login to Idle.
func (m *Manager) InputChanged(field auth.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.presenter.ClearFieldError(field)
	if m.phase == Failed {
		m.phase = Idle
	}
}

// ToggleFavorite flips itemID in the favorites set and persists the whole set.
//
// A persistence failure is logged; the in-memory toggle stands either way. It returns the new membership.
func (m *Manager) ToggleFavorite(ctx context.Context, itemID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	added := m.state.Favorites.Toggle(itemID)
	if err := storage.SaveFavorites(ctx, m.store, m.state.Favorites); err != nil {
		m.logger.Error("could not save favorites", "item", itemID, "error", err)
	}
	return added
}

// IsFavorite reports whether itemID is a favorite.
func (m *Manager) IsFavorite(itemID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Favorites.Has(itemID)
}

// Favorites returns the favorite ids in ascending order.
func (m *Manager) Favorites() models.FavoriteSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Favorites.Clone()
}

// Logout forgets the current user and the stored session marker.
//
// The remembered identifier survives only when the remember flag is stored.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.CurrentUser = nil
	m.phase = Idle

	if err := storage.RemoveSession(ctx, m.store); err != nil {
		m.logger.Error("could not clear session", "error", err)
	}

	remember, err := storage.RememberFlagSet(ctx, m.store)
	if err != nil {
		m.logger.Warn("could not read remember flag", "error", err)
		return
	}
	if !remember {
		if err := storage.ClearRemembered(ctx, m.store); err != nil {
			m.logger.Warn("could not clear saved credentials", "error", err)
		}
		m.state.RememberedIdentifier = ""
	}
}

// Signup stores a simulated account record. Both fields are required.
//
// The record is kept in the store only; it does not make the account usable for login.
func (m *Manager) Signup(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		m.presenter.ShowAlert(AlertError, "Please enter both username and password")
		return fmt.Errorf("%w: username and password", shared.ErrMissingArgument)
	}

	hash, err := m.hash(password)
	if err != nil {
		return err
	}

	rec := models.SignupRecord{Username: username, PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := storage.SaveSignup(ctx, m.store, rec); err != nil {
		m.logger.Error("could not save signup", "username", username, "error", err)
		m.presenter.ShowAlert(AlertError, "Sign up failed. Please try again.")
		return err
	}

	m.presenter.ShowAlert(AlertSuccess, "Sign up successful! You can now log in.")
	return nil
}

// RequestPasswordReset validates email and simulates sending a reset link.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := auth.ValidateEmail(email); err != nil {
		m.presenter.ShowAlert(AlertError, err.Error())
		return err
	}

	if err := m.wait(ctx, m.timing.Reset); err != nil {
		m.presenter.ShowAlert(AlertError, "Failed to send reset email. Please try again.")
		return err
	}

	m.logger.Info("password reset requested", "email", email)
	m.presenter.ShowAlert(AlertSuccess, "Password reset link sent to your email!")
	return nil
}

// SocialProviderGoogle is the only social login provider.
const SocialProviderGoogle = "google"

// SocialLogin checks that provider is supported. Unsupported providers get an info alert.
func (m *Manager) SocialLogin(provider string) error {
	if strings.ToLower(provider) != SocialProviderGoogle {
		m.presenter.ShowAlert(AlertInfo, "Only Google login is supported now.")
		return fmt.Errorf("%w: %s", shared.ErrUnsupportedSocial, provider)
	}
	return nil
}

// CompleteSocialLogin logs in the user returned by a provider and returns the handoff location.
//
// A nil profile with err set reports a provider failure.
func (m *Manager) CompleteSocialLogin(ctx context.Context, profile *models.SocialProfile, err error) (*LoginResult, error) {
	if err != nil {
		m.presenter.ShowAlert(AlertError, "Google Sign-In failed: "+err.Error())
		return &LoginResult{Phase: Failed}, err
	}

	user := profile.Public()
	token, err := m.signer.Sign(user)
	if err != nil {
		return nil, fmt.Errorf("failed to sign handoff: %w", err)
	}

	m.mu.Lock()
	m.state.CurrentUser = &models.UserRecord{Identifier: user.Identifier, Role: user.Role, DisplayName: user.DisplayName}
	m.phase = Success
	if err := storage.SaveSession(ctx, m.store, token); err != nil {
		m.logger.Warn("could not save session", "error", err)
	}
	m.mu.Unlock()

	m.presenter.ShowAlert(AlertSuccess, fmt.Sprintf("Welcome, %s", user.DisplayName))
	m.logger.Info("social login succeeded", "provider", profile.Provider, "email", profile.Email)

	target := HandoffURL(token)
	m.presenter.Navigate(target)
	return &LoginResult{Phase: Success, User: &user, Token: token, Redirect: target}, nil
}
