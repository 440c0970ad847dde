package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack is the Slack-side configuration: inbound request verification, the
// slash command to serve, and the ops notification webhook.
type Slack struct {
	signingSecret string
	webhookURL    string
	command       string
}

// Flags returns the CLI flags for Slack
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack signing secret for webhook verification",
			Category:    "Slack",
			Sources:     cli.EnvVars("SLACK_SIGNING_SECRET"),
			Destination: &x.signingSecret,
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for ops notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("SLACK_WEBHOOK_URL"),
			Destination: &x.webhookURL,
		},
		&cli.StringFlag{
			Name:        "slack-command",
			Usage:       "Slash command handled by the bot",
			Category:    "Slack",
			Value:       "/mcp-preview",
			Sources:     cli.EnvVars("SLACK_COMMAND"),
			Destination: &x.command,
		},
	}
}

// LogValue implements slog.LogValuer, hiding secret material
func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.Int("webhook-url.len", len(x.webhookURL)),
		slog.String("command", x.command),
	)
}

// Validate checks that all required Slack settings are present
func (x *Slack) Validate() error {
	var missing []string
	if x.signingSecret == "" {
		missing = append(missing, "slack-signing-secret")
	}
	if x.webhookURL == "" {
		missing = append(missing, "slack-webhook-url")
	}
	if len(missing) > 0 {
		return goerr.Wrap(ErrMissingConfig, "Slack configuration is incomplete", goerr.V("missing", missing))
	}
	return nil
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// WebhookURL returns the ops notification webhook URL
func (x *Slack) WebhookURL() string {
	return x.webhookURL
}

// Command returns the slash command name
func (x *Slack) Command() string {
	return x.command
}
