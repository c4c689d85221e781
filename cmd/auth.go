package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/server"
	"github.com/desertthunder/learndash/internal/services"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/urfave/cli/v3"
)

const oauthTimeout = 2 * time.Minute

// Login runs the login flow for the CLI profile and prints the dashboard link.
//
// Without --username the remembered identifier is used.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("google") {
		return r.googleLogin(ctx, cmd)
	}

	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}

	identifier := cmd.String("username")
	if identifier == "" {
		identifier = mgr.RememberedIdentifier()
	}

	result, err := mgr.Submit(ctx, session.LoginForm{
		Identifier: identifier,
		Secret:     cmd.String("password"),
		Remember:   cmd.Bool("remember"),
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}
	return nil
}

// googleLogin runs the authorization code flow with a local callback server and logs the profile in.
func (r *Runner) googleLogin(ctx context.Context, cmd *cli.Command) error {
	if r.social == nil {
		return fmt.Errorf("%w: credentials.google client_id and client_secret must be set", shared.ErrMissingCredentials)
	}

	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}
	if err := mgr.SocialLogin(r.social.Name()); err != nil {
		return err
	}

	profile, err := r.doOAuth(ctx, r.social)
	result, err := mgr.CompleteSocialLogin(ctx, profile, err)
	if err != nil {
		return fmt.Errorf("google login failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}
	return nil
}

// doOAuth serves the provider's redirect URI locally, opens the consent page and waits for the callback.
func (r *Runner) doOAuth(ctx context.Context, provider services.SocialProvider) (*models.SocialProfile, error) {
	redirect, err := url.Parse(r.config.Credentials.Google.RedirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: bad redirect_uri %q", shared.ErrInvalidConfig, r.config.Credentials.Google.RedirectURI)
	}

	state := shared.GenerateID()
	oauthHandler := server.NewOAuthHandler(provider, redirect.Path, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Addr:              redirect.Host,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", redirect.Host)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	authURL := provider.AuthCodeURL(state)
	r.writePlain("→ Opening browser for Google sign-in...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(oauthTimeout)
	defer timeout.Stop()

	select {
	case result := <-oauthHandler.Result():
		if result.Error() != nil {
			return nil, fmt.Errorf("authorization failed: %w", result.Error())
		}
		return result.Profile, nil
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Logout clears the saved session of the CLI profile.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}

	mgr.Logout(ctx)
	r.writePlain("✓ Logged out\n")
	if id := mgr.RememberedIdentifier(); id != "" {
		r.writePlain("Remembered username: %s\n", id)
	}
	return nil
}

// Signup stores a simulated sign up record. It does not create a login.
func (r *Runner) Signup(ctx context.Context, cmd *cli.Command) error {
	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}
	return mgr.Signup(ctx, cmd.String("username"), cmd.String("password"))
}

// ResetPassword validates the email and simulates sending a reset link.
func (r *Runner) ResetPassword(ctx context.Context, cmd *cli.Command) error {
	mgr, _, err := r.manager(ctx)
	if err != nil {
		return err
	}
	return mgr.RequestPasswordReset(ctx, cmd.String("email"))
}

// Whoami prints the user the dashboard would show.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	store, err := r.profile(ctx)
	if err != nil {
		return err
	}

	user, err := r.currentUser(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}
	return r.writePlain("%s (%s) <%s>\n", user.DisplayName, user.Role, user.Identifier)
}
