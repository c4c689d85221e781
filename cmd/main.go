package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/learndash/internal/services"
	"github.com/desertthunder/learndash/internal/shared"
	"github.com/urfave/cli/v3"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadDotEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config, err := shared.ResolveConfig(configPath)
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	var social services.SocialProvider
	if config.Credentials.Google.Enabled() {
		if svc, err := services.NewGoogleService(config.Credentials.Google); err == nil {
			social = svc
		} else {
			logger.Warn("google login disabled", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		Social:     social,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "learndash",
		Usage:    "Log in to the learning dashboard, browse videos & manage favorites",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Log at debug level"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
