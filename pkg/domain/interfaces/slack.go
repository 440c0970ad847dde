package interfaces

import (
	"context"

	"github.com/slack-go/slack"
)

// Responder delivers the single user-facing reply of a slash command
// invocation to its response URL.
type Responder interface {
	Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error
}

// Notifier sends operational alerts to the configured ops channel
type Notifier interface {
	NotifyAuthFailure(ctx context.Context, reason string) error
}
