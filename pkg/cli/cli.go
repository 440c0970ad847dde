package cli

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/freightops/carrierwatch/pkg/cli/config"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Run executes the carrierwatch CLI
func Run(ctx context.Context, args []string, version string) error {
	loadDotEnv()

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "carrierwatch",
		Usage:   "Slack slash-command bot for MyCarrierPortal carrier risk previews",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logCloser, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, logCloser)

			sentryCloser, err := sentryCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, sentryCloser)

			logging.Default().Info("starting carrierwatch", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for _, closer := range closers {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// loadDotEnv loads the credential/env file before flag parsing so env-backed
// flags see the persisted values. A missing file is fine; production setups
// configure through the environment directly.
func loadDotEnv() {
	path := os.Getenv("CARRIERWATCH_ENV_FILE")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Default().Warn("failed to load env file", "path", path, "error", err)
	}
}
