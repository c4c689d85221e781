// Package web serves the dashboard over HTTP: the login and dashboard pages and the JSON API.
//
// # Architecture
//
// Handlers are thin adapters between HTTP and [session.Manager]. The app keeps one manager per client
// profile (see [App.manager]), loaded from the profile store on first use and evicted after it sits idle.
// Overlapping requests of one client therefore share the login phase: a second login submitted while the
// first is running gets 409. Each request talks to the shared manager through its own presenter.
// The profile namespace comes from the learndash_profile cookie, a random uuid set on first visit.
//
// Routes
//
//	GET  /                      → login page (prefills the remembered identifier)
//	POST /login                 → client-side login flow, JSON result
//	POST /login/input           → clear a field error after input changes
//	POST /server/login          → server-side credential check, form post
//	GET  /dashboard             → dashboard page, ?user=<handoff token>
//	GET  /api/videos            → filtered catalog (?q=, ?category=)
//	GET  /api/videos/{id}       → one video, records a view
//	GET  /api/categories        → category list
//	GET  /api/favorites         → favorite videos
//	POST /api/favorites/{id}    → toggle a favorite
//	GET  /api/profile           → current viewer
//	POST /logout                → clear the session
//	POST /signup                → store the simulated signup record
//	POST /forgot-password       → simulated reset email
//	GET  /auth/{provider}       → start social login
//	GET  /auth/google/callback  → finish Google login
//	GET  /health                → liveness
//
// # Viewer Resolution
//
// The dashboard and API identify the viewer from, in order: a handoff token (?user= or a Bearer header),
// the learndash_session cookie of a server-side login, the token stored under the profile's userSession key,
// and finally the guest profile when auth.allow_guest is set. An invalid handoff token is rejected with 401.
package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/repositories"
	"github.com/desertthunder/learndash/internal/server"
	"github.com/desertthunder/learndash/internal/services"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	ProfileCookie    = "learndash_profile"
	SessionCookie    = "learndash_session"
	OAuthStateCookie = "learndash_oauth_state"
)

// Options holds the dependencies of an [App]. Social may be nil when Google login is not configured.
type Options struct {
	Config    *shared.Config
	DB        *sql.DB
	Backend   storage.Backend
	Catalog   *catalog.Catalog
	Directory *auth.Directory
	Social    services.SocialProvider
	Logger    *log.Logger
}

// App holds the handlers of the web service.
type App struct {
	cfg         *shared.Config
	backend     storage.Backend
	catalog     *catalog.Catalog
	directory   *auth.Directory
	signer      *auth.HandoffSigner
	checker     *auth.CredentialChecker
	credentials *repositories.CredentialRepository
	sessions    *repositories.ServerSessionRepository
	social      services.SocialProvider
	logger      *log.Logger
	templates   *template.Template
	limiter     *server.RateLimiter
	profiles    *profiles
}

// New builds an [App]. Config, DB and Backend are required.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("%w: web app needs a config", shared.ErrMissingConfig)
	}
	if opts.DB == nil || opts.Backend == nil {
		return nil, fmt.Errorf("%w: web app needs a database and a storage backend", shared.ErrMissingConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(logger, catalog.SeedVideos()...)
	}
	if opts.Directory == nil {
		opts.Directory = auth.NewDirectory()
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	credentials := repositories.NewCredentialRepository(opts.DB)
	cfg := opts.Config

	app := &App{
		cfg:         cfg,
		backend:     opts.Backend,
		catalog:     opts.Catalog,
		directory:   opts.Directory,
		signer:      auth.NewHandoffSigner(cfg.Auth.HandoffSecret, cfg.Auth.HandoffTTL.Duration),
		checker:     auth.NewCredentialChecker(credentials),
		credentials: credentials,
		sessions:    repositories.NewServerSessionRepository(opts.DB),
		social:      opts.Social,
		logger:      logger,
		templates:   tmpl,
		limiter:     server.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
	}
	app.profiles = newProfiles(profileIdleTTL, app.newManager)
	return app, nil
}

// Signer returns the handoff signer, so other surfaces can issue tokens the dashboard accepts.
func (a *App) Signer() *auth.HandoffSigner {
	return a.signer
}

// Routes registers every route on a [server.BasicRouter] behind the request middleware.
func (a *App) Routes() http.Handler {
	r := server.NewBasicRouter()
	r.Use(server.RequestID)
	if a.cfg.Server.TrustProxy {
		r.Use(server.RealIP)
	}
	r.Use(server.RequestLogger(a.logger), server.Recoverer)

	r.HandleFunc(http.MethodGet, "/{$}", a.handleLoginPage)
	r.HandleFunc(http.MethodPost, "/login", a.handleLogin)
	r.HandleFunc(http.MethodPost, "/login/input", a.handleLoginInput)
	r.HandleFunc(http.MethodPost, "/server/login", a.handleServerLogin)
	r.HandleFunc(http.MethodGet, "/dashboard", a.handleDashboard)
	r.HandleFunc(http.MethodPost, "/logout", a.handleLogout)
	r.HandleFunc(http.MethodPost, "/signup", a.handleSignup)
	r.HandleFunc(http.MethodPost, "/forgot-password", a.handleForgotPassword)
	r.HandleFunc(http.MethodGet, "/auth/google/callback", a.handleGoogleCallback)
	r.HandleFunc(http.MethodGet, "/auth/{provider}", a.handleSocialLogin)
	r.HandleFunc(http.MethodGet, "/health", a.handleHealth)

	api := func(h http.HandlerFunc) http.Handler {
		return server.Chain(h, server.CORS(a.cfg.Server.AllowedOrigins), a.limiter.Middleware)
	}
	r.Handle(http.MethodGet, "/api/videos", api(a.handleVideos))
	r.Handle(http.MethodGet, "/api/videos/{id}", api(a.handleVideo))
	r.Handle(http.MethodGet, "/api/categories", api(a.handleCategories))
	r.Handle(http.MethodGet, "/api/favorites", api(a.handleFavorites))
	r.Handle(http.MethodPost, "/api/favorites/{id}", api(a.handleToggleFavorite))
	r.Handle(http.MethodGet, "/api/profile", api(a.handleProfile))

	return r
}

// manager returns the request profile's session manager, reporting to presenter for this request only.
func (a *App) manager(w http.ResponseWriter, r *http.Request, presenter session.Presenter) *session.Manager {
	profile := a.profileID(w, r)
	return a.profiles.get(r.Context(), profile).WithPresenter(presenter)
}

// newManager builds the manager of profile and loads its stored preferences.
func (a *App) newManager(ctx context.Context, profile string) *session.Manager {
	m := session.NewManager(session.Options{
		Store:     storage.Profile(a.backend, profile),
		Directory: a.directory,
		Signer:    a.signer,
		Logger:    shared.WithLogger(a.logger, "profile", profile),
		Timing:    session.TimingFromConfig(a.cfg.Auth),
	})
	m.Load(context.WithoutCancel(ctx))
	return m
}

// profileID returns the profile namespace from the profile cookie, issuing a new one when missing or invalid.
func (a *App) profileID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(ProfileCookie); err == nil && shared.IsID(c.Value) {
		return c.Value
	}

	id := shared.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     ProfileCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.AddCookie(&http.Cookie{Name: ProfileCookie, Value: id})
	return id
}
