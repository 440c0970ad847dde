package async

import (
	"context"

	"github.com/freightops/carrierwatch/pkg/utils/errutil"
	"github.com/freightops/carrierwatch/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine on a detached background context.
// The request-scoped logger is carried over so the invocation keeps its
// correlation attributes, but cancellation of the inbound HTTP request does
// not cancel the handler (the slash command ack has already been sent).
// Panics are recovered and logged, never propagated to the server.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
