package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/server"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
)

// loginPage is the data of templates/login.html.
type loginPage struct {
	Remembered    string
	ServerMessage string
	FieldErrors   map[string]string
	Alerts        []session.Alert
	Shake         bool
	GoogleEnabled bool
	DemoUsers     []models.PublicUser
}

func (a *App) newLoginPage(m *session.Manager, rec *session.Recorder) loginPage {
	page := loginPage{
		Remembered:    m.RememberedIdentifier(),
		FieldErrors:   map[string]string{},
		GoogleEnabled: a.social != nil,
		DemoUsers:     a.directory.Users(),
	}
	if rec != nil {
		fields, alerts := rec.Snapshot()
		for f, msg := range fields {
			page.FieldErrors[string(f)] = msg
		}
		page.Alerts = alerts
		page.Shake = rec.Shaken
	}
	return page
}

// respondFlow answers a form flow with JSON for API clients and the re-rendered login page otherwise.
func (a *App) respondFlow(w http.ResponseWriter, r *http.Request, status int, m *session.Manager, rec *session.Recorder) {
	if wantsJSON(r) {
		resp := newFlowResponse(m.Phase(), rec)
		if user, ok := m.CurrentUser(); ok {
			resp.User = &user
		}
		a.writeJSON(w, status, resp)
		return
	}
	a.render(w, status, "login.html", a.newLoginPage(m, rec))
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	rec := session.NewRecorder()
	m := a.manager(w, r, rec)
	m.Greet()

	a.render(w, http.StatusOK, "login.html", a.newLoginPage(m, rec))
}

type loginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// handleLogin runs the client-side login flow against the seed list.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	err := decodeInput(r, &in, func(form url.Values) {
		in.Username = form.Get("username")
		in.Password = form.Get("password")
		in.Remember = formBool(form.Get("remember"))
	})
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := session.NewRecorder()
	m := a.manager(w, r, rec)

	result, err := m.Submit(r.Context(), session.LoginForm{
		Identifier: in.Username,
		Secret:     in.Password,
		Remember:   in.Remember,
	})

	var (
		fieldErr *auth.FieldError
		authErr  *auth.AuthError
	)
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.As(err, &fieldErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &authErr):
		status = http.StatusUnauthorized
	case errors.Is(err, session.ErrSubmitInProgress):
		status = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	default:
		a.logger.Error("login failed", "error", err)
		status = http.StatusInternalServerError
	}

	if err == nil && !wantsJSON(r) {
		http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
		return
	}
	a.respondFlow(w, r, status, m, rec)
}

type inputChange struct {
	Field string `json:"field"`
}

// handleLoginInput clears the error shown next to a field once its input changes.
func (a *App) handleLoginInput(w http.ResponseWriter, r *http.Request) {
	var in inputChange
	err := decodeInput(r, &in, func(form url.Values) {
		in.Field = form.Get("field")
	})
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	field := auth.Field(in.Field)
	switch field {
	case auth.FieldIdentifier, auth.FieldSecret, auth.FieldEmail:
	default:
		a.writeError(w, http.StatusBadRequest, "unknown field "+in.Field)
		return
	}

	rec := session.NewRecorder()
	m := a.manager(w, r, rec)
	m.InputChanged(field)

	a.writeJSON(w, http.StatusOK, newFlowResponse(m.Phase(), rec))
}

// handleServerLogin checks a form post against the credentials table and opens a server session.
func (a *App) handleServerLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	page := func(message string) loginPage {
		p := a.newLoginPage(a.manager(w, r, nil), nil)
		p.ServerMessage = message
		return p
	}

	if username == "" || password == "" {
		a.render(w, http.StatusUnprocessableEntity, "login.html", page("Please enter both username and password."))
		return
	}

	cred, err := a.checker.Check(username, password)
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		a.logger.Warn("server login failed", "username", username, "error", err)
		a.render(w, http.StatusUnauthorized, "login.html", page(authErr.ServerMessage()))
		return
	}
	if err != nil {
		a.logger.Error("server login failed", "username", username, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	sess := models.NewServerSession(cred.Username(), a.cfg.Auth.SessionTTL.Duration)
	if err := a.sessions.Create(sess); err != nil {
		a.logger.Error("could not create session", "username", cred.Username(), "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	token, err := a.signer.Sign(cred.Public())
	if err != nil {
		a.logger.Error("could not sign handoff", "username", cred.Username(), "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		Expires:  sess.ExpiresAt(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	a.logger.Info("server login succeeded", "username", cred.Username(), "session", sess.ID())
	http.Redirect(w, r, session.HandoffURL(token), http.StatusSeeOther)
}

// handleLogout clears the profile session and revokes the server session, if any.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	m := a.manager(w, r, nil)
	m.Logout(r.Context())

	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := a.sessions.Revoke(c.Value); err != nil && !errors.Is(err, shared.ErrNotFound) {
			a.logger.Warn("could not revoke session", "error", err)
		}
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}

	if wantsJSON(r) {
		a.writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	err := decodeInput(r, &in, func(form url.Values) {
		in.Username = form.Get("username")
		in.Password = form.Get("password")
	})
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := session.NewRecorder()
	m := a.manager(w, r, rec)

	status := http.StatusOK
	if err := m.Signup(r.Context(), in.Username, in.Password); err != nil {
		status = http.StatusInternalServerError
		if errors.Is(err, shared.ErrMissingArgument) {
			status = http.StatusBadRequest
		}
	}
	a.respondFlow(w, r, status, m, rec)
}

type resetInput struct {
	Email string `json:"email"`
}

func (a *App) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in resetInput
	err := decodeInput(r, &in, func(form url.Values) {
		in.Email = form.Get("email")
	})
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec := session.NewRecorder()
	m := a.manager(w, r, rec)

	status := http.StatusOK
	if err := m.RequestPasswordReset(r.Context(), in.Email); err != nil {
		var fieldErr *auth.FieldError
		if errors.As(err, &fieldErr) {
			status = http.StatusUnprocessableEntity
		} else {
			status = http.StatusServiceUnavailable
		}
	}
	a.respondFlow(w, r, status, m, rec)
}

// handleSocialLogin starts the OAuth2 code flow of provider.
func (a *App) handleSocialLogin(w http.ResponseWriter, r *http.Request) {
	rec := session.NewRecorder()
	m := a.manager(w, r, rec)

	if err := m.SocialLogin(r.PathValue("provider")); err != nil {
		a.respondFlow(w, r, http.StatusBadRequest, m, rec)
		return
	}
	if a.social == nil {
		a.writeError(w, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	state := shared.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     OAuthStateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, a.social.AuthCodeURL(state), http.StatusFound)
}

// handleGoogleCallback finishes Google login. The state must match the cookie set by handleSocialLogin.
func (a *App) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if a.social == nil {
		a.writeError(w, http.StatusServiceUnavailable, "Google login is not configured")
		return
	}

	var state string
	if c, err := r.Cookie(OAuthStateCookie); err == nil {
		state = c.Value
	}
	http.SetCookie(w, &http.Cookie{Name: OAuthStateCookie, Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})

	profile, err := server.Callback(r.Context(), a.social, state, r)

	rec := session.NewRecorder()
	m := a.manager(w, r, rec)

	result, err := m.CompleteSocialLogin(r.Context(), profile, err)
	if err != nil {
		a.logger.Warn("social login failed", "provider", a.social.Name(), "error", err)
		a.render(w, http.StatusBadRequest, "login.html", a.newLoginPage(m, rec))
		return
	}
	http.Redirect(w, r, result.Redirect, http.StatusSeeOther)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
