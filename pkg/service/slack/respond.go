package slack

import (
	"context"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const webhookTimeout = 10 * time.Second

// Responder posts slash-command replies to the response URL Slack attached
// to the invocation.
type Responder struct {
	httpClient *http.Client
}

// ResponderOption configures a Responder
type ResponderOption func(*Responder)

// WithResponderHTTPClient replaces the HTTP client used for webhook posts
func WithResponderHTTPClient(client *http.Client) ResponderOption {
	return func(r *Responder) {
		r.httpClient = client
	}
}

// NewResponder creates a Responder
func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{
		httpClient: &http.Client{Timeout: webhookTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond delivers msg to responseURL
func (r *Responder) Respond(ctx context.Context, responseURL string, msg *slack.WebhookMessage) error {
	if responseURL == "" {
		return goerr.New("response URL is empty")
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, responseURL, r.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slash command reply")
	}
	return nil
}
