package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/repositories"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/urfave/cli/v3"
)

type credentialView struct {
	ID          string      `json:"id"`
	Sequence    int         `json:"sequence"`
	Username    string      `json:"username"`
	DisplayName string      `json:"name"`
	Role        models.Role `json:"role"`
	CreatedAt   time.Time   `json:"created_at"`
}

func newCredentialView(c *models.Credential) credentialView {
	return credentialView{
		ID:          c.ID(),
		Sequence:    c.Sequence(),
		Username:    c.Username(),
		DisplayName: c.Public().DisplayName,
		Role:        c.Role(),
		CreatedAt:   c.CreatedAt(),
	}
}

func (r *Runner) credentials() (*repositories.CredentialRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return repositories.NewCredentialRepository(db), nil
}

// CredentialsAdd hashes the password and stores a new credential.
func (r *Runner) CredentialsAdd(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.credentials()
	if err != nil {
		return err
	}

	username := strings.TrimSpace(cmd.String("username"))
	if err := auth.ValidateIdentifier(username); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	if err := auth.ValidateSecret(cmd.String("password")); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	hash, err := auth.HashPassword(cmd.String("password"))
	if err != nil {
		return err
	}

	role := models.RoleUser
	if cmd.Bool("admin") {
		role = models.RoleAdmin
	}

	cred := models.NewCredential(0, username, hash, cmd.String("name"), role)
	if err := repo.Create(cred); err != nil {
		return fmt.Errorf("failed to add credential: %w", err)
	}

	r.logger.Info("credential added", "username", username, "role", role)
	return r.writePlain("✓ Added %s (%s)\n", username, role)
}

// CredentialsList prints every stored credential.
func (r *Runner) CredentialsList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.credentials()
	if err != nil {
		return err
	}

	creds, err := repo.List(nil)
	if err != nil {
		return err
	}

	views := make([]credentialView, len(creds))
	for i, c := range creds {
		views[i] = newCredentialView(c)
	}

	if cmd.Bool("json") {
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(views) == 0 {
		return r.writePlain("No credentials. Add one with: learndash credentials add -u <name> -p <password>\n")
	}

	r.writePlain("Found %d credentials:\n\n", len(views))
	for _, v := range views {
		r.writePlain("%d. %s\n", v.Sequence, v.Username)
		r.writePlain("   Name: %s\n", v.DisplayName)
		r.writePlain("   Role: %s\n", v.Role)
		r.writePlain("   Created: %s\n", v.CreatedAt.Format(time.RFC3339))
	}
	return nil
}

// CredentialsRemove soft-deletes a credential and revokes its open server sessions.
func (r *Runner) CredentialsRemove(ctx context.Context, cmd *cli.Command) error {
	username := strings.TrimSpace(cmd.StringArg("username"))
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	repo, err := r.credentials()
	if err != nil {
		return err
	}

	cred, err := repo.GetByUsername(username)
	if err != nil {
		return err
	}
	if err := repo.Delete(cred.ID()); err != nil {
		return err
	}

	revoked, err := repositories.NewServerSessionRepository(r.db).RevokeUser(username)
	if err != nil {
		r.logger.Warn("could not revoke sessions", "username", username, "error", err)
	}

	r.logger.Info("credential removed", "username", username, "revoked", revoked)
	return r.writePlain("✓ Removed %s (%d sessions revoked)\n", username, revoked)
}

// CredentialsCheck runs the server-side credential check without creating a session.
func (r *Runner) CredentialsCheck(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.credentials()
	if err != nil {
		return err
	}

	cred, err := auth.NewCredentialChecker(repo).Check(cmd.String("username"), cmd.String("password"))
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		r.writePlain("✗ %s\n", authErr.ServerMessage())
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if err != nil {
		return err
	}

	user := cred.Public()
	return r.writePlain("✓ %s (%s) can log in\n", user.DisplayName, user.Role)
}

// CredentialsPrune deletes server sessions that expired or were revoked.
func (r *Runner) CredentialsPrune(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	n, err := repositories.NewServerSessionRepository(db).Prune(time.Now())
	if err != nil {
		return err
	}
	return r.writePlain("✓ Pruned %d sessions\n", n)
}
