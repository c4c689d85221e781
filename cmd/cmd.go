// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func categoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "category",
		Aliases: []string{"C"},
		Usage:   "Category filter (all, programming, design, business, language)",
		Value:   "all",
	}
}

func jsonFlags(pretty bool) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: pretty,
		},
	}
}

// setupCommand handles setup operations for the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing, initialize the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// credentialsCommand manages the hashed accounts checked by the server-side login form.
func credentialsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "credentials",
		Aliases: []string{"creds"},
		Usage:   "Manage server-side login credentials",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a credential with a bcrypt-hashed password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Login name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Plain-text password, hashed before it is stored",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name shown on the dashboard",
					},
					&cli.BoolFlag{
						Name:  "admin",
						Usage: "Grant the admin role",
					},
				},
				Action: r.CredentialsAdd,
			},
			{
				Name:   "list",
				Usage:  "List credentials",
				Flags:  jsonFlags(true),
				Action: r.CredentialsList,
			},
			{
				Name:  "remove",
				Usage: "Remove a credential and revoke its sessions",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Action: r.CredentialsRemove,
			},
			{
				Name:  "check",
				Usage: "Check a username and password against the stored hash",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
					},
				},
				Action: r.CredentialsCheck,
			},
			{
				Name:   "prune",
				Usage:  "Delete expired and revoked server sessions",
				Action: r.CredentialsPrune,
			},
		},
	}
}

// loginCommand runs the login flow against the demo accounts.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in with a demo account or with Google",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username or email (defaults to the remembered one)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password",
			},
			&cli.BoolFlag{
				Name:  "remember",
				Usage: "Remember the username for the next login",
			},
			&cli.BoolFlag{
				Name:  "google",
				Usage: "Sign in with Google in the browser",
			},
		}, jsonFlags(false)...),
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the saved session",
		Action: r.Logout,
	}
}

func signupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "signup",
		Usage: "Store a sign up record for the profile",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
			},
		},
		Action: r.Signup,
	}
}

func resetPasswordCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "reset-password",
		Usage: "Request a password reset link",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
			},
		},
		Action: r.ResetPassword,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged in user",
		Flags:  jsonFlags(false),
		Action: r.Whoami,
	}
}

// catalogCommand browses and exports the video catalog.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"videos"},
		Usage:   "Browse the video catalog",
		Commands: []*cli.Command{
			{
				Name:  "search",
				Usage: "Search videos by title, description or instructor",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  append([]cli.Flag{categoryFlag()}, jsonFlags(true)...),
				Action: r.CatalogSearch,
			},
			{
				Name:  "show",
				Usage: "Show one video and record a view",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(true),
				Action: r.CatalogShow,
			},
			{
				Name:   "categories",
				Usage:  "List categories",
				Action: r.CatalogCategories,
			},
			{
				Name:  "export",
				Usage: "Export a filtered listing to CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "csv, md, txt or json",
						Value:   "md",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path (csv: base name, md: directory, '-' for stdout)",
					},
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search text",
					},
					categoryFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "Export title",
					},
					&cli.BoolFlag{
						Name:  "favorites",
						Usage: "Export favorites only",
					},
				},
				Action: r.CatalogExport,
			},
		},
	}
}

func favoritesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite videos",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorite videos",
				Flags:  jsonFlags(true),
				Action: r.FavoritesList,
			},
			{
				Name:  "toggle",
				Usage: "Add or remove a video from favorites",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.FavoritesToggle,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the login page, dashboard and JSON API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the login page in the browser",
			},
		},
		Action: r.Serve,
	}
}

// dashboardCommand returns the top-level TUI command for the terminal dashboard.
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Aliases: []string{"tui", "ui"},
		Usage:   "Launch the interactive terminal dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file used while the dashboard owns the terminal",
				Value: "./tmp/learndash-tui.log",
			},
		},
		Action: r.Dashboard,
	}
}
