package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web app until ctx is cancelled, then shuts it down gracefully.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	backend, err := r.storageBackend(ctx)
	if err != nil {
		return err
	}

	app, err := web.New(web.Options{
		Config:    r.config,
		DB:        db,
		Backend:   backend,
		Catalog:   r.catalog,
		Directory: r.directory,
		Social:    r.social,
		Logger:    shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("serving learndash", "addr", addr, "storage", r.config.Storage.Backend, "google", r.social != nil)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	r.writePlain("→ Listening on %s\n", r.baseURL())
	if cmd.Bool("open") {
		if err := shared.OpenBrowser(r.baseURL()); err != nil {
			r.logger.Warnf("failed to open browser automatically %v", err)
		}
	}

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
