package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Sentry is the error reporting configuration. Reporting is disabled when no
// DSN is set.
type Sentry struct {
	dsn string
	env string
}

// Flags returns the CLI flags for Sentry
func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (empty to disable)",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("SENTRY_DSN"),
			Destination: &x.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("SENTRY_ENV"),
			Destination: &x.env,
		},
	}
}

// LogValue implements slog.LogValuer
func (x Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.dsn != ""),
		slog.String("env", x.env),
	)
}

// Configure initializes the Sentry SDK when a DSN is configured. The
// returned closer flushes buffered events.
func (x *Sentry) Configure() (func(), error) {
	if x.dsn == "" {
		logging.Default().Info("sentry is disabled")
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.env,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	logging.Default().Info("sentry is enabled", "env", x.env)
	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
