package slack

import (
	"context"
	"fmt"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// OpsNotifier posts operational alerts to a fixed Slack incoming webhook.
// It is used when the refresh token itself is rejected: the bot cannot
// recover on its own and someone has to re-authorize the MCP integration.
type OpsNotifier struct {
	webhookURL string
	httpClient *http.Client
}

// NotifierOption configures an OpsNotifier
type NotifierOption func(*OpsNotifier)

// WithNotifierHTTPClient replaces the HTTP client used for webhook posts
func WithNotifierHTTPClient(client *http.Client) NotifierOption {
	return func(n *OpsNotifier) {
		n.httpClient = client
	}
}

// NewOpsNotifier creates an OpsNotifier posting to webhookURL
func NewOpsNotifier(webhookURL string, opts ...NotifierOption) *OpsNotifier {
	n := &OpsNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: webhookTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NotifyAuthFailure alerts the ops channel that token refresh is failing
func (n *OpsNotifier) NotifyAuthFailure(ctx context.Context, reason string) error {
	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf(":rotating_light: carrierwatch cannot refresh its MyCarrierPackets credentials: %s. Manual re-authorization is required.", reason),
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post ops notification")
	}
	return nil
}
