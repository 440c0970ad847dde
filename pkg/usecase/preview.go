package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/freightops/carrierwatch/pkg/domain/interfaces"
	"github.com/freightops/carrierwatch/pkg/service/mcp"
	slacksvc "github.com/freightops/carrierwatch/pkg/service/slack"
	"github.com/freightops/carrierwatch/pkg/service/token"
	"github.com/freightops/carrierwatch/pkg/utils/errutil"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// A lookup gets at most two attempts: the initial call and one retry after a
// single token refresh. The cap is a fixed policy, not configuration.
const maxLookupAttempts = 2

// User-facing reply texts. Every invocation produces exactly one of these or
// a formatted risk assessment.
const (
	replyEmptyArg     = "Please provide a valid MC number."
	replyNoData       = "No data found for the provided MC number."
	replyAuthFailure  = "Error: Could not refresh authentication. Please check logs or contact admin."
	replyConnectivity = "Error: Could not connect to the data service. Please try again later."
	replyUnexpected   = "An unexpected error occurred. Please check logs or contact an administrator."
)

// PreviewUseCase orchestrates one slash-command invocation: look the carrier
// up, refresh the bearer token once on a 401, and send exactly one reply.
type PreviewUseCase struct {
	api       interfaces.CarrierAPI
	refresher interfaces.TokenRefresher
	responder interfaces.Responder
	notifier  interfaces.Notifier
}

// NewPreviewUseCase creates a PreviewUseCase
func NewPreviewUseCase(api interfaces.CarrierAPI, refresher interfaces.TokenRefresher, responder interfaces.Responder) *PreviewUseCase {
	return &PreviewUseCase{
		api:       api,
		refresher: refresher,
		responder: responder,
	}
}

// HandlePreview processes a slash command that has already been acked by the
// HTTP adapter. All failures are converted into a user-facing reply; the
// returned error only reports a failure to deliver that reply.
func (uc *PreviewUseCase) HandlePreview(ctx context.Context, cmd slack.SlashCommand) error {
	msg := uc.buildReply(ctx, cmd)

	if err := uc.responder.Respond(ctx, cmd.ResponseURL, msg); err != nil {
		return goerr.Wrap(err, "failed to deliver slash command reply",
			goerr.V("channel_id", cmd.ChannelID),
		)
	}
	return nil
}

// buildReply runs the lookup flow and returns the single reply for this
// invocation. It never returns nil and never panics outward.
func (uc *PreviewUseCase) buildReply(ctx context.Context, cmd slack.SlashCommand) *slack.WebhookMessage {
	logger := logging.From(ctx)

	mcNumber := strings.TrimSpace(cmd.Text)
	if mcNumber == "" {
		return ephemeralReply(replyEmptyArg)
	}

	logger.Info("looking up carrier", "mc_number", mcNumber)

	for attempt := 1; attempt <= maxLookupAttempts; attempt++ {
		record, err := uc.api.PreviewCarrier(ctx, mcNumber)
		if err == nil {
			if record == nil {
				logger.Info("no carrier data found", "mc_number", mcNumber, "attempt", attempt)
				return ephemeralReply(replyNoData)
			}
			logger.Info("carrier data received", "mc_number", mcNumber, "attempt", attempt)
			return slacksvc.BuildRiskMessage(record)
		}

		if errors.Is(err, mcp.ErrUnauthorized) && attempt == 1 {
			logger.Info("bearer token rejected, refreshing", "mc_number", mcNumber)
			if _, refreshErr := uc.refresher.Refresh(ctx); refreshErr != nil {
				_ = errutil.Handle(ctx, refreshErr, "token refresh failed")
				if errors.Is(refreshErr, token.ErrRefreshRejected) {
					uc.notifyAuthFailure(ctx, refreshErr)
				}
				return ephemeralReply(replyAuthFailure)
			}
			continue
		}

		return uc.failureReply(ctx, err, mcNumber, attempt)
	}

	// Unreachable: every attempt either returns or continues into the next.
	return ephemeralReply(replyUnexpected)
}

// failureReply maps a terminal lookup error to its user-facing message
func (uc *PreviewUseCase) failureReply(ctx context.Context, err error, mcNumber string, attempt int) *slack.WebhookMessage {
	_ = errutil.Handle(ctx, goerr.Wrap(err, "carrier lookup failed",
		goerr.V("mc_number", mcNumber),
		goerr.V("attempt", attempt),
	), "carrier lookup failed")

	var statusErr *mcp.StatusError
	var netErr *url.Error

	switch {
	case errors.Is(err, mcp.ErrUnauthorized):
		// 401 on the post-refresh attempt; no further retries.
		return ephemeralReply(statusReply(401))
	case errors.As(err, &statusErr):
		return ephemeralReply(statusReply(statusErr.Code))
	case errors.As(err, &netErr):
		return ephemeralReply(replyConnectivity)
	default:
		return ephemeralReply(replyUnexpected)
	}
}

func (uc *PreviewUseCase) notifyAuthFailure(ctx context.Context, cause error) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyAuthFailure(ctx, cause.Error()); err != nil {
		_ = errutil.Handle(ctx, err, "failed to notify ops channel")
	}
}

func statusReply(code int) string {
	return fmt.Sprintf("Error: API request failed with status %d.", code)
}

func ephemeralReply(text string) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		Text:         text,
		ResponseType: slack.ResponseTypeEphemeral,
	}
}
