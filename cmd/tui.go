package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/ui"
	"github.com/urfave/cli/v3"
)

// Dashboard launches the terminal dashboard for the logged in user, or the guest profile.
func (r *Runner) Dashboard(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	mgr, store, err := r.manager(ctx)
	if err != nil {
		return err
	}

	user, err := r.currentUser(ctx, store)
	if err != nil {
		return err
	}

	cat := catalog.New(fileLogger, r.catalog.All()...)
	return ui.Run(ctx, ui.NewModel(ctx, cat, mgr, user))
}
