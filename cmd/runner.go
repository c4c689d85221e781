package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/learndash/internal/auth"
	"github.com/desertthunder/learndash/internal/catalog"
	"github.com/desertthunder/learndash/internal/models"
	"github.com/desertthunder/learndash/internal/services"
	"github.com/desertthunder/learndash/internal/session"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/desertthunder/learndash/internal/storage"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database and storage backend are opened on first use so commands that only read the catalog never touch disk.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	catalog    *catalog.Catalog
	directory  *auth.Directory
	social     services.SocialProvider
	db         *sql.DB
	backend    storage.Backend
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Catalog    *catalog.Catalog
	Directory  *auth.Directory
	// Social is nil when Google login is not configured.
	Social  services.SocialProvider
	DB      *sql.DB
	Backend storage.Backend
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(opts.Logger)
	}
	if opts.Directory == nil {
		opts.Directory = auth.NewDirectory()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		catalog:    opts.Catalog,
		directory:  opts.Directory,
		social:     opts.Social,
		db:         opts.DB,
		backend:    opts.Backend,
	}
}

// SetLogger replaces the logger, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the storage backend and database opened by commands.
func (r *Runner) Close() error {
	var errs []error
	if r.backend != nil {
		errs = append(errs, r.backend.Close())
	}
	if r.db != nil {
		errs = append(errs, r.db.Close())
	}
	return errors.Join(errs...)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, credentialsCommand, loginCommand, logoutCommand, signupCommand, resetPasswordCommand,
		whoamiCommand, catalogCommand, favoritesCommand, serveCommand, dashboardCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens and migrates the configured database once.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

// storageBackend opens the configured preference backend once.
func (r *Runner) storageBackend(ctx context.Context) (storage.Backend, error) {
	if r.backend != nil {
		return r.backend, nil
	}

	var db *sql.DB
	if r.config.Storage.Backend == "" || r.config.Storage.Backend == storage.BackendSQLite {
		var err error
		if db, err = r.database(); err != nil {
			return nil, err
		}
	}

	backend, err := storage.Open(ctx, r.config.Storage, db)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	r.backend = backend
	return backend, nil
}

// profile returns the store of the configured CLI profile.
func (r *Runner) profile(ctx context.Context) (*storage.ProfileStore, error) {
	backend, err := r.storageBackend(ctx)
	if err != nil {
		return nil, err
	}
	return storage.Profile(backend, r.config.Storage.Profile), nil
}

func (r *Runner) signer() *auth.HandoffSigner {
	return auth.NewHandoffSigner(r.config.Auth.HandoffSecret, r.config.Auth.HandoffTTL.Duration)
}

// manager builds a [session.Manager] over the CLI profile, printing through the terminal presenter.
// Saved preferences are loaded before it is returned.
func (r *Runner) manager(ctx context.Context) (*session.Manager, *storage.ProfileStore, error) {
	store, err := r.profile(ctx)
	if err != nil {
		return nil, nil, err
	}

	mgr := session.NewManager(session.Options{
		Store:     store,
		Directory: r.directory,
		Signer:    r.signer(),
		Presenter: newPresenter(r.output, r.baseURL()),
		Logger:    shared.WithLogger(r.logger, "profile", store.Namespace()),
		Timing:    session.TimingFromConfig(r.config.Auth),
	})
	mgr.Load(ctx)
	return mgr, store, nil
}

// currentUser verifies the token saved by the last login. Without one it falls back to the guest
// profile when guests are allowed.
func (r *Runner) currentUser(ctx context.Context, store storage.Store) (models.PublicUser, error) {
	token, ok, err := storage.LoadSession(ctx, store)
	if err != nil {
		r.logger.Warn("could not read session", "error", err)
	}

	if ok {
		user, err := r.signer().Verify(token)
		if err == nil {
			return user, nil
		}
		r.logger.Warn("saved session rejected", "error", err)
	}

	if r.config.Auth.AllowGuest {
		return auth.GuestUser(), nil
	}
	return models.PublicUser{}, fmt.Errorf("%w: run 'learndash login' first", shared.ErrNotAuthenticated)
}

func (r *Runner) baseURL() string {
	return "http://" + r.config.Server.Addr()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
