package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/freightops/carrierwatch/pkg/utils/async"
	"github.com/freightops/carrierwatch/pkg/utils/errutil"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Slack rejects replayed requests older than this window
const signatureMaxAge = 5 * time.Minute

// verifySlackSignature checks the v0 HMAC signature scheme of the Slack
// request against the signing secret.
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp header")
	}
	if signature == "" {
		return goerr.New("missing signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp header")
	}

	now := time.Now().Unix()
	if now-ts > int64(signatureMaxAge.Seconds()) {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	mac := hmac.New(sha256.New, []byte(signingSecret))
	fmt.Fprintf(mac, "v0:%s:%s", timestamp, body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware verifies the Slack request signature before the
// handler runs. The body is buffered and restored so the handler can parse
// the form payload.
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(r.Body)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
				return
			}
			if err := r.Body.Close(); err != nil {
				logging.From(ctx).Error("failed to close request body", "error", err)
			}

			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// PreviewHandler is the use case invoked for an accepted slash command
type PreviewHandler interface {
	HandlePreview(ctx context.Context, cmd slack.SlashCommand) error
}

// SlackCommandHandler accepts slash-command webhooks, acks them within
// Slack's timeout window, and hands the invocation to the use case
// asynchronously. The reply goes out later through the command's response
// URL.
type SlackCommandHandler struct {
	command string
	preview PreviewHandler
}

// NewSlackCommandHandler creates a handler for the named slash command
// (e.g. "/mcp-preview").
func NewSlackCommandHandler(command string, preview PreviewHandler) *SlackCommandHandler {
	return &SlackCommandHandler{
		command: command,
		preview: preview,
	}
}

// ServeHTTP handles a slash-command request
func (h *SlackCommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	if cmd.Command != h.command {
		logging.From(ctx).Warn("ignoring unexpected command", "command", cmd.Command)
		w.WriteHeader(http.StatusOK)
		return
	}

	logger := logging.From(ctx).With(
		"invocation_id", uuid.NewString(),
		"command", cmd.Command,
		"channel_id", cmd.ChannelID,
		"user_id", cmd.UserID,
	)
	ctx = logging.With(ctx, logger)

	// Ack with an empty 200 before any blocking work; the actual reply is
	// posted to cmd.ResponseURL by the use case.
	w.WriteHeader(http.StatusOK)

	async.Dispatch(ctx, func(ctx context.Context) error {
		return h.preview.HandlePreview(ctx, cmd)
	})
}
